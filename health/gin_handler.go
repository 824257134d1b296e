package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewGinEngine mirrors NewChiRouter's three endpoints on a gin.Engine, for
// hosts already standardized on gin for their outer HTTP surface.
func NewGinEngine(fn ResultFunc) *gin.Engine {
	engine := gin.New()
	engine.GET("/healthz", ginReadinessHandler(fn))
	engine.GET("/readyz", ginReadinessHandler(fn))
	engine.GET("/livez", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func ginReadinessHandler(fn ResultFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		agg, ok := fn()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, Report{Status: "not-yet-computed"})
			return
		}

		report := BuildReport(agg)
		c.JSON(httpStatusFor(Evaluate(agg)), report)
	}
}

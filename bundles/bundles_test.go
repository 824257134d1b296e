package bundles

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veggerby/ignition/signal"
)

func sig(t *testing.T, name string) signal.Signal {
	t.Helper()
	s, err := signal.New(name, func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	return s
}

func TestMergeFlattensBundlesInOrder(t *testing.T) {
	db := Database(sig(t, "postgres"))
	cache := Cache(sig(t, "redis"))

	merged := Merge(db, cache)

	require.Len(t, merged, 2)
	assert.Equal(t, "postgres", merged[0].Name())
	assert.Equal(t, "redis", merged[1].Name())
}

func TestLoadProfileDecodesYAML(t *testing.T) {
	doc := `
database:
  - postgres
cache:
  - redis
timeouts:
  postgres: 2s
`
	profile, err := LoadProfile(strings.NewReader(doc))
	require.NoError(t, err)

	assert.True(t, profile.Includes("postgres"))
	assert.True(t, profile.Includes("redis"))
	assert.False(t, profile.Includes("kafka"))
	assert.Equal(t, 2*time.Second, profile.TimeoutFor("postgres", time.Second))
	assert.Equal(t, time.Second, profile.TimeoutFor("kafka", time.Second))
}

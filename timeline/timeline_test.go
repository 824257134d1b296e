package timeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veggerby/ignition/internal/result"
)

func TestBuildIncludesSchemaVersionAndFailureText(t *testing.T) {
	boom := errors.New("connection refused")
	agg := result.Aggregate{
		TotalDuration: 150 * time.Millisecond,
		Signals: []result.SignalResult{
			{Name: "db", Status: result.StatusFailed, Failure: boom},
		},
	}

	doc := Build(agg, uuid.New())

	assert.Equal(t, SchemaVersion, doc.SchemaVersion)
	require.Len(t, doc.Signals, 1)
	assert.Equal(t, "connection refused", doc.Signals[0].Failure)
}

func TestExportWritesValidJSON(t *testing.T) {
	agg := result.Aggregate{
		Signals: []result.SignalResult{{Name: "db", Status: result.StatusSucceeded}},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, agg, uuid.New()))

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1", decoded.SchemaVersion)
}

package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresAtLeastOneBroker(t *testing.T) {
	_, err := New("events", Config{Topic: "orders"})
	require.Error(t, err)
}

func TestNewDefaultsName(t *testing.T) {
	sig, err := New("", Config{Brokers: []string{"localhost:9092"}, Topic: "orders"})
	require.NoError(t, err)
	assert.Equal(t, "kafka", sig.Name())
}

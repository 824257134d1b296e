package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestNewSucceedsWhenPoolPings(t *testing.T) {
	sig, err := New("db", fakePinger{})
	require.NoError(t, err)
	assert.NoError(t, sig.Invoke(context.Background()))
}

func TestNewFailsWhenPoolPingErrors(t *testing.T) {
	boom := errors.New("connection refused")
	sig, err := New("db", fakePinger{err: boom})
	require.NoError(t, err)

	err = sig.Invoke(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewDefaultsName(t *testing.T) {
	sig, err := New("", fakePinger{})
	require.NoError(t, err)
	assert.Equal(t, "postgres", sig.Name())
}

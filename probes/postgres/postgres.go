// Package postgres provides a readiness signal backed by pgx, grounded on
// kubernaut and randalmurphal-orc's pgxpool usage: readiness is a
// successful Ping against the pool, not merely a non-nil pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veggerby/ignition/signal"
)

// Pinger is satisfied by *pgxpool.Pool; accepting the interface keeps the
// probe testable without a live database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New builds a signal that succeeds when pool answers a ping. opts are
// forwarded to signal.New, letting callers attach a timeout, scope, or
// stage the way any other signal would be configured.
func New(name string, pool Pinger, opts ...signal.Option) (signal.Signal, error) {
	if name == "" {
		name = "postgres"
	}
	return signal.New(name, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: ping failed: %w", err)
		}
		return nil
	}, opts...)
}

// NewPool builds a signal from a DSN, opening a pgxpool.Pool lazily the
// first (and only) time the signal is invoked, matching the "one
// invocation per coordinator lifetime" invariant.
func NewPool(name, dsn string, opts ...signal.Option) (signal.Signal, error) {
	if name == "" {
		name = "postgres"
	}
	return signal.New(name, func(ctx context.Context) error {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("postgres: connect failed: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: ping failed: %w", err)
		}
		return nil
	}, opts...)
}

// Package redis provides a readiness signal backed by go-redis, grounded on
// itsneelabh-gomind's health-check pattern of issuing a PING and treating
// anything but a clean reply as not-ready.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"github.com/veggerby/ignition/signal"
)

// Pinger is satisfied by *redis.Client and *redis.ClusterClient.
type Pinger interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// New builds a signal that succeeds when client answers PING with PONG.
func New(name string, client Pinger, opts ...signal.Option) (signal.Signal, error) {
	if name == "" {
		name = "redis"
	}
	return signal.New(name, func(ctx context.Context) error {
		reply, err := client.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis: ping failed: %w", err)
		}
		if reply != "PONG" {
			return fmt.Errorf("redis: unexpected PING reply %q", reply)
		}
		return nil
	}, opts...)
}

// NewFromAddr builds a signal from a connection address, opening and
// closing a dedicated client for the single ping.
func NewFromAddr(name, addr string, opts ...signal.Option) (signal.Signal, error) {
	if name == "" {
		name = "redis"
	}
	return signal.New(name, func(ctx context.Context) error {
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: ping failed: %w", err)
		}
		return nil
	}, opts...)
}

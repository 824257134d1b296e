// Package kafka provides a readiness signal backed by kafka-go, grounded on
// linkflow-go's broker bootstrap: readiness means the broker answers a
// metadata request for the configured topic, not merely that a TCP dial
// succeeded.
package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/veggerby/ignition/signal"
)

// Config addresses a single broker and the topic whose metadata should be
// fetched as the readiness check.
type Config struct {
	Brokers []string
	Topic   string
}

// New builds a signal that succeeds when a metadata lookup for cfg.Topic
// against the first entry of cfg.Brokers returns at least one partition. The
// other entries of cfg.Brokers are not contacted.
func New(name string, cfg Config, opts ...signal.Option) (signal.Signal, error) {
	if name == "" {
		name = "kafka"
	}
	if len(cfg.Brokers) == 0 {
		return signal.Signal{}, fmt.Errorf("kafka: at least one broker is required")
	}

	return signal.New(name, func(ctx context.Context) error {
		conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err != nil {
			return fmt.Errorf("kafka: dial failed: %w", err)
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(cfg.Topic)
		if err != nil {
			return fmt.Errorf("kafka: metadata lookup failed: %w", err)
		}
		if len(partitions) == 0 {
			return fmt.Errorf("kafka: topic %q has no partitions", cfg.Topic)
		}
		return nil
	}, opts...)
}

// Package bundles groups commonly-needed signals into named collections,
// the way a host application typically wants "every datastore" or "every
// cache" rather than registering probes one at a time.
package bundles

import "github.com/veggerby/ignition/signal"

// Database returns a bundle combining one or more readiness signals that
// represent the application's persistent stores, typically built with
// probes/postgres.
func Database(signals ...signal.Signal) []signal.Signal {
	return append([]signal.Signal(nil), signals...)
}

// Cache returns a bundle combining one or more cache readiness signals,
// typically built with probes/redis.
func Cache(signals ...signal.Signal) []signal.Signal {
	return append([]signal.Signal(nil), signals...)
}

// MessageQueue returns a bundle combining one or more broker readiness
// signals, typically built with probes/kafka.
func MessageQueue(signals ...signal.Signal) []signal.Signal {
	return append([]signal.Signal(nil), signals...)
}

// Merge flattens any number of bundles into a single registration-ordered
// signal list, the shape ignition.New expects.
func Merge(bundles ...[]signal.Signal) []signal.Signal {
	var out []signal.Signal
	for _, b := range bundles {
		out = append(out, b...)
	}
	return out
}

package bundles

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML-declared set of bundle memberships and per-signal
// timeout overrides, the same "name lists plus a scalar override map" shape
// every example repo's own config file uses.
type Profile struct {
	Database     []string          `yaml:"database"`
	Cache        []string          `yaml:"cache"`
	MessageQueue []string          `yaml:"message_queue"`
	Timeouts     map[string]string `yaml:"timeouts"`
}

// LoadProfile decodes a Profile from r.
func LoadProfile(r io.Reader) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("bundles: decode profile: %w", err)
	}
	return p, nil
}

// TimeoutFor returns the profile's override for name, parsed as a
// time.ParseDuration string, falling back to fallback when absent or
// unparsable.
func (p Profile) TimeoutFor(name string, fallback time.Duration) time.Duration {
	raw, ok := p.Timeouts[name]
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// Includes reports whether name appears in any of the profile's bundle
// membership lists.
func (p Profile) Includes(name string) bool {
	for _, group := range [][]string{p.Database, p.Cache, p.MessageQueue} {
		for _, n := range group {
			if n == name {
				return true
			}
		}
	}
	return false
}

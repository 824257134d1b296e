package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/veggerby/ignition"
	"github.com/veggerby/ignition/internal/plan"
	"github.com/veggerby/ignition/internal/scheduler"
)

// Config is the YAML-serializable shape a profile resolves to. It mirrors
// ignition.Options field-for-field but with plain strings/durations in
// place of the core's typed enums, so it can be decoded from and encoded to
// a config file or printed for an operator to inspect.
type Config struct {
	Mode                      string        `yaml:"mode" mapstructure:"mode"`
	Policy                    string        `yaml:"policy" mapstructure:"policy"`
	StagePolicy               string        `yaml:"stage_policy" mapstructure:"stage_policy"`
	EarlyPromotionThreshold   float64       `yaml:"early_promotion_threshold,omitempty" mapstructure:"early_promotion_threshold"`
	GlobalTimeout             time.Duration `yaml:"global_timeout" mapstructure:"global_timeout"`
	MaxConcurrency            int64         `yaml:"max_concurrency,omitempty" mapstructure:"max_concurrency"`
	CancelOnGlobalTimeout     bool          `yaml:"cancel_on_global_timeout" mapstructure:"cancel_on_global_timeout"`
	CancelIndividualOnTimeout bool          `yaml:"cancel_individual_on_timeout" mapstructure:"cancel_individual_on_timeout"`
	CancelDependentsOnFailure bool          `yaml:"cancel_dependents_on_failure" mapstructure:"cancel_dependents_on_failure"`
}

// ToOptions translates the resolved Config into ignition.Option values a
// host application's ignition.New call can apply directly.
func (c Config) ToOptions() ([]ignition.Option, error) {
	mode, err := parseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	policy, err := parsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	stagePolicy, err := parseStagePolicy(c.StagePolicy)
	if err != nil {
		return nil, err
	}

	opts := []ignition.Option{
		ignition.WithMode(mode),
		ignition.WithPolicy(policy),
		ignition.WithStagePolicy(stagePolicy),
		ignition.WithGlobalTimeout(c.GlobalTimeout),
		ignition.WithCancelOnGlobalTimeout(c.CancelOnGlobalTimeout),
		ignition.WithCancelIndividualOnTimeout(c.CancelIndividualOnTimeout),
		ignition.WithCancelDependentsOnFailure(c.CancelDependentsOnFailure),
	}
	if c.EarlyPromotionThreshold > 0 {
		opts = append(opts, ignition.WithEarlyPromotionThreshold(c.EarlyPromotionThreshold))
	}
	if c.MaxConcurrency > 0 {
		opts = append(opts, ignition.WithMaxConcurrency(c.MaxConcurrency))
	}
	return opts, nil
}

func parseMode(s string) (plan.Mode, error) {
	switch s {
	case "parallel", "":
		return plan.ModeParallel, nil
	case "sequential":
		return plan.ModeSequential, nil
	case "staged":
		return plan.ModeStaged, nil
	case "dependency-aware":
		return plan.ModeDependencyAware, nil
	default:
		return 0, fmt.Errorf("ignitionctl: unknown mode %q", s)
	}
}

func parsePolicy(s string) (scheduler.Policy, error) {
	switch s {
	case "best-effort", "":
		return scheduler.PolicyBestEffort, nil
	case "fail-fast":
		return scheduler.PolicyFailFast, nil
	case "continue-on-timeout":
		return scheduler.PolicyContinueOnTimeout, nil
	default:
		return 0, fmt.Errorf("ignitionctl: unknown policy %q", s)
	}
}

func parseStagePolicy(s string) (scheduler.StagePolicy, error) {
	switch s {
	case "all-must-succeed", "":
		return scheduler.StageAllMustSucceed, nil
	case "best-effort":
		return scheduler.StageBestEffort, nil
	case "fail-fast":
		return scheduler.StageFailFast, nil
	case "early-promotion":
		return scheduler.StageEarlyPromotion, nil
	default:
		return 0, fmt.Errorf("ignitionctl: unknown stage policy %q", s)
	}
}

// Preset is a named, ready-to-use Config a host application can select via
// --profile instead of hand-assembling one.
type Preset struct {
	Description string
	Config      Config
}

var presets = map[string]Preset{
	"fast-fail": {
		Description: "parallel execution, halts dispatch on the first non-success",
		Config: Config{
			Mode:          "parallel",
			Policy:        "fail-fast",
			GlobalTimeout: 30 * time.Second,
		},
	},
	"best-effort": {
		Description: "parallel execution, every signal runs to completion",
		Config: Config{
			Mode:          "parallel",
			Policy:        "best-effort",
			GlobalTimeout: 30 * time.Second,
		},
	},
	"staged-conservative": {
		Description: "staged execution, a failed stage skips everything after it",
		Config: Config{
			Mode:          "staged",
			Policy:        "best-effort",
			StagePolicy:   "all-must-succeed",
			GlobalTimeout: 60 * time.Second,
		},
	},
	"staged-aggressive": {
		Description: "staged execution with early promotion once 75% of a stage succeeds",
		Config: Config{
			Mode:                    "staged",
			Policy:                  "best-effort",
			StagePolicy:             "early-promotion",
			EarlyPromotionThreshold: 0.75,
			GlobalTimeout:           60 * time.Second,
		},
	},
}

func presetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

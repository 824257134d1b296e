package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newResolveCmd() *cobra.Command {
	var (
		profileName    string
		globalTimeout  time.Duration
		maxConcurrency int64
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a profile plus overrides into a concrete Config and print it as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, ok := presets[profileName]
			if !ok {
				return fmt.Errorf("ignitionctl: unknown profile %q (available: %v)", profileName, presetNames())
			}
			cfg := preset.Config

			if cmd.Flags().Changed("global-timeout") {
				cfg.GlobalTimeout = globalTimeout
			} else if viper.IsSet("global_timeout") {
				cfg.GlobalTimeout = viper.GetDuration("global_timeout")
			}

			if cmd.Flags().Changed("max-concurrency") {
				cfg.MaxConcurrency = maxConcurrency
			} else if viper.IsSet("max_concurrency") {
				cfg.MaxConcurrency = viper.GetInt64("max_concurrency")
			}

			// Validate the resolved config maps to real ignition.Options
			// before printing it, so a bad profile/override combination
			// fails here rather than at the caller's ignition.New.
			if _, err := cfg.ToOptions(); err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("ignitionctl: marshalling resolved config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "best-effort", "named profile to resolve")
	cmd.Flags().DurationVar(&globalTimeout, "global-timeout", 0, "override the profile's global timeout")
	cmd.Flags().Int64Var(&maxConcurrency, "max-concurrency", 0, "override the profile's max concurrency")

	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the named profiles ignitionctl knows about",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := presetNames()
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", name, presets[name].Description)
			}
			return nil
		},
	}
}

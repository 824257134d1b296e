package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ignitionctl",
		Short: "Resolve and inspect ignition coordinator profiles",
		Long: `ignitionctl resolves a named readiness-coordinator profile plus any
flag, environment, or config-file overrides into a concrete Config, without
importing or running the host application's own signals.

Available profiles: ` + strings.Join(presetNames(), ", "),
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default none)")
	root.AddCommand(newResolveCmd())
	root.AddCommand(newProfilesCmd())

	cobra.OnInitialize(initViper)
	return root
}

func initViper() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		_ = viper.ReadInConfig()
	}
	viper.SetEnvPrefix("IGNITION")
	viper.AutomaticEnv()
}

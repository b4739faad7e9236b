package main

import (
	"github.com/spf13/cobra"

	"github.com/driftbrowser/drift/internal/config"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "drift",
	Short: "Headless browser shell for driving tabs",
	Long: `drift manages browsing sessions over a Chrome DevTools Protocol
engine: open tabs (normal or private), follow toolbar visibility for a
web app's trusted scope, and watch session lifecycle events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			cfg = config.Default()
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a drift config file (YAML)")
	rootCmd.AddCommand(openCmd)
}

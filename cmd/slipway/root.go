package main

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/metalagman/slipway/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "slipway",
		Short: "slipway packages agents, deploys them to an agent engine, and submits ingestion pipelines",
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", filepath.Join(".slipway", "config.json"), "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
		// Same convention as the agent itself: local secrets live in .env.
		_ = godotenv.Load()
	}
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(deployCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(deploymentsCmd())
	return rootCmd.Execute()
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = filepath.Join(".slipway", "config.json")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
}

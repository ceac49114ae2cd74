package main

import (
	"fmt"
	"os"

	"github.com/metalagman/slipway/internal/config"
	"github.com/metalagman/slipway/internal/registry"
	"github.com/metalagman/slipway/internal/remote"
	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var in registry.Record
	var nonInteractive bool
	cmd := &cobra.Command{
		Use:          "register [APP_ID]",
		Short:        "Link a deployed agent engine into the enterprise catalog",
		Long:         "Link a deployed agent engine into the enterprise catalog. Field values are taken from flags, then SLIPWAY_* environment variables, then interactive prompts; with --non-interactive a missing required field is fatal.",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.AppID = args[0]
			}

			var prompter registry.Prompter
			if !nonInteractive {
				prompter = registry.TerminalPrompter{}
			}
			rec, err := registry.Resolve(in, prompter)
			if err != nil {
				return err
			}

			workRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(workRoot)
			if err != nil {
				return err
			}
			if err := config.RequireEndpoint("catalog", cfg.Catalog); err != nil {
				return err
			}

			client := registry.NewClient(remote.NewClient(cfg.Catalog.Endpoint, cfg.Catalog.Token()))
			name, err := client.Register(cmd.Context(), rec)
			if err != nil {
				return err
			}
			fmt.Println(name)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.DisplayName, "display-name", "", "catalog display name")
	cmd.Flags().StringVar(&in.Description, "description", "", "catalog description")
	cmd.Flags().StringVar(&in.ToolDescription, "tool-description", "", "description of the agent's tool surface")
	cmd.Flags().StringVar(&in.AgentEngineID, "agent-engine-id", "", "remote handle of the deployed agent engine")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "fail instead of prompting for missing fields")
	return cmd
}

package main

import (
	"fmt"

	"github.com/metalagman/slipway/internal/history"
	"github.com/spf13/cobra"
)

func deploymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "Manage local deployment history",
	}
	cmd.AddCommand(deploymentsListCmd())
	cmd.AddCommand(deploymentsPruneCmd())
	return cmd
}

func deploymentsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List recorded deployments, newest first",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			deployments, err := history.NewStore(storeDB).ListDeployments(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(deployments) == 0 {
				fmt.Println("no deployments recorded")
				return nil
			}
			for _, d := range deployments {
				fmt.Printf("%s  %s  %s  %s (%d packages)\n", d.CreatedAt, d.DeployID, d.Entrypoint, d.Handle, d.Packages)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of deployments to show (0 = all)")
	return cmd
}

func deploymentsPruneCmd() *cobra.Command {
	var keepLast int
	var keepDays int
	var dryRun bool
	cmd := &cobra.Command{
		Use:          "prune",
		Short:        "Prune old deployment records from the local database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workRoot, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workRoot)
			if err != nil {
				return err
			}

			policy := history.RetentionPolicy{KeepLast: keepLast, KeepDays: keepDays}
			if policy.KeepLast <= 0 && policy.KeepDays <= 0 {
				policy = history.RetentionPolicy{
					KeepLast: cfg.Retention.KeepLast,
					KeepDays: cfg.Retention.KeepDays,
				}
			}
			if policy.KeepLast <= 0 && policy.KeepDays <= 0 {
				return fmt.Errorf("set --keep-last or --keep-days (or configure retention in .slipway/config.json)")
			}

			res, err := history.Prune(cmd.Context(), storeDB, policy, dryRun)
			if err != nil {
				return err
			}
			fmt.Printf("considered %d, kept %d, deleted %d\n", res.Considered, res.Kept, res.Deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&keepLast, "keep-last", 0, "keep this many most recent deployments")
	cmd.Flags().IntVar(&keepDays, "keep-days", 0, "keep deployments newer than this many days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted without deleting")
	return cmd
}

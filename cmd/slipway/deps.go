package main

import (
	"fmt"
	"path/filepath"

	"github.com/metalagman/slipway/internal/artifact"
	"github.com/metalagman/slipway/internal/manifest"
	"github.com/spf13/cobra"
)

func depsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage the agent's locked dependency manifest",
	}
	cmd.AddCommand(depsSyncCmd())
	return cmd
}

func depsSyncCmd() *cobra.Command {
	var sourceRoot string
	var output string
	cmd := &cobra.Command{
		Use:          "sync",
		Short:        "Resolve the dependency closure and write the locked manifest",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			self := artifact.SelfName(sourceRoot)
			resolver := manifest.NewResolver(nil, self)
			m, err := resolver.Resolve(cmd.Context(), sourceRoot)
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = filepath.Join(sourceRoot, artifact.ManifestFileName)
			}
			if err := m.WriteFile(path); err != nil {
				return err
			}
			fmt.Printf("wrote %d pinned packages to %s\n", len(m.Entries), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceRoot, "source", ".", "project source root")
	cmd.Flags().StringVar(&output, "output", "", "manifest output path (default <source>/requirements.txt)")
	return cmd
}

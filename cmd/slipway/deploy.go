package main

import (
	"bytes"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/metalagman/slipway/internal/artifact"
	"github.com/metalagman/slipway/internal/config"
	"github.com/metalagman/slipway/internal/engine"
	"github.com/metalagman/slipway/internal/history"
	"github.com/metalagman/slipway/internal/manifest"
	"github.com/metalagman/slipway/internal/objectstore"
	"github.com/metalagman/slipway/internal/remote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func deployCmd() *cobra.Command {
	var entrypoint string
	var manifestPath string
	var displayName string
	cmd := &cobra.Command{
		Use:          "deploy SOURCE_ROOT",
		Short:        "Package the agent and deploy it to the agent engine",
		Long:         "Package the agent source tree with its locked manifest, stage the bundle, and register it with the remote agent engine. Prints the resulting remote handle.",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceRoot := args[0]
			ctx := cmd.Context()

			storeDB, workRoot, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()
			cfg, err := loadConfig(workRoot)
			if err != nil {
				return err
			}
			if err := config.RequireEndpoint("engine", cfg.Engine); err != nil {
				return err
			}

			self := artifact.SelfName(sourceRoot)
			var m manifest.Manifest
			if manifestPath != "" {
				m, err = manifest.Load(manifestPath, self)
			} else {
				m, err = manifest.NewResolver(nil, self).Resolve(ctx, sourceRoot)
			}
			if err != nil {
				return err
			}

			desc, err := artifact.Package(sourceRoot, entrypoint, m, self)
			if err != nil {
				return err
			}

			var bundle bytes.Buffer
			if err := artifact.Bundle(desc, &bundle); err != nil {
				return err
			}

			store, err := objectstore.New(cfg.Staging)
			if err != nil {
				return err
			}
			deployID := uuid.NewString()
			key := path.Join("deployments", deployID, "bundle.tar.gz")
			stagedURI, err := store.Put(ctx, key, bytes.NewReader(bundle.Bytes()), int64(bundle.Len()), "application/gzip")
			if err != nil {
				return err
			}

			client := engine.NewClient(remote.NewClient(cfg.Engine.Endpoint, cfg.Engine.Token()))
			handle, err := client.Deploy(ctx, engine.DeployRequest{
				ProjectID:    cfg.Project,
				Region:       cfg.Region,
				Descriptor:   desc,
				StagedURI:    stagedURI,
				DisplayName:  displayName,
				Requirements: m,
			})
			if err != nil {
				return err
			}

			rec := history.Deployment{
				DeployID:   deployID,
				SourceRoot: sourceRoot,
				Entrypoint: desc.Entrypoint(),
				StagedURI:  stagedURI,
				Handle:     string(handle),
				Packages:   len(m.Entries),
			}
			if err := history.NewStore(storeDB).RecordDeployment(ctx, rec); err != nil {
				log.Warn().Err(err).Msg("deployment succeeded but history record failed")
			}

			fmt.Println(handle)
			return nil
		},
	}
	cmd.Flags().StringVar(&entrypoint, "entrypoint", "", "agent entrypoint as module:object, e.g. app.agent_engine_app:agent_engine")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "pre-resolved manifest path (default: resolve from the source root)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name for the deployed agent")
	_ = cmd.MarkFlagRequired("entrypoint")
	return cmd
}

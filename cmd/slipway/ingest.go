package main

import (
	"fmt"

	"github.com/metalagman/slipway/internal/config"
	"github.com/metalagman/slipway/internal/history"
	"github.com/metalagman/slipway/internal/objectstore"
	"github.com/metalagman/slipway/internal/pipeline"
	"github.com/metalagman/slipway/internal/remote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var spec pipeline.JobSpec
	cmd := &cobra.Command{
		Use:          "ingest",
		Short:        "Submit a named data-ingestion pipeline job",
		Long:         "Compose and submit a data-ingestion pipeline job for asynchronous execution. Submission success means the job was accepted, not that it finished; the printed reference is for remote tracking.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := config.RequireEndpoint("pipeline", cfg.Pipeline); err != nil {
				return err
			}
			if spec.ProjectID == "" {
				spec.ProjectID = cfg.Project
			}
			if spec.Region == "" {
				spec.Region = cfg.Region
			}

			var stager pipeline.Stager
			if cfg.Staging.Endpoint != "" {
				store, err := objectstore.New(cfg.Staging)
				if err != nil {
					return err
				}
				stager = store
			}

			client := pipeline.NewClient(remote.NewClient(cfg.Pipeline.Endpoint, cfg.Pipeline.Token()), stager)
			ref, err := client.Submit(ctx, spec)
			if err != nil {
				return err
			}

			rec := history.PipelineJob{
				JobName:    spec.Name,
				RunID:      ref.RunID,
				ProjectID:  spec.ProjectID,
				Region:     spec.Region,
				RemoteName: ref.Name,
				State:      string(ref.State),
			}
			if err := history.NewStore(storeDB).RecordPipelineJob(ctx, rec); err != nil {
				log.Warn().Err(err).Msg("submission succeeded but history record failed")
			}

			fmt.Println(ref.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&spec.ProjectID, "project", "", "project id (default: config project)")
	cmd.Flags().StringVar(&spec.Region, "region", "", "compute region (default: config region)")
	cmd.Flags().StringVar(&spec.DataStoreID, "data-store", "", "target data store id")
	cmd.Flags().StringVar(&spec.DataStoreRegion, "data-store-region", "", "data store region (independent of the compute region)")
	cmd.Flags().StringVar(&spec.ServiceAccount, "service-account", "", "service account identity the job runs as")
	cmd.Flags().StringVar(&spec.PipelineRoot, "pipeline-root", "", "artifact root URI for pipeline outputs")
	cmd.Flags().StringVar(&spec.Name, "name", "", "stable pipeline name; resubmitting the same name updates the job")
	return cmd
}

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalagman/slipway/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "slipway.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewStore(database)
}

func TestRecordAndListDeployments(t *testing.T) {
	t.Parallel()

	store := openTestDB(t)
	ctx := context.Background()

	first := Deployment{
		DeployID:   "d1",
		CreatedAt:  time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
		SourceRoot: "app",
		Entrypoint: "app.agent_engine_app:agent_engine",
		StagedURI:  "s3://staging/deployments/d1/bundle.tar.gz",
		Handle:     "agentEngines/1",
		Packages:   3,
	}
	second := first
	second.DeployID = "d2"
	second.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	second.Handle = "agentEngines/2"

	require.NoError(t, store.RecordDeployment(ctx, first))
	require.NoError(t, store.RecordDeployment(ctx, second))

	got, err := store.ListDeployments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].DeployID, "newest first")

	limited, err := store.ListDeployments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "agentEngines/2", limited[0].Handle)
}

func TestRecordPipelineJob(t *testing.T) {
	t.Parallel()

	store := openTestDB(t)
	job := PipelineJob{
		JobName:    "data-ingestion",
		RunID:      "run-1",
		ProjectID:  "acme-dev",
		Region:     "us-central1",
		RemoteName: "pipelineJobs/data-ingestion-1",
		State:      "SUBMITTED",
	}
	require.NoError(t, store.RecordPipelineJob(context.Background(), job))
}

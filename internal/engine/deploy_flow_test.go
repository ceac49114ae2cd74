package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/metalagman/slipway/internal/artifact"
	"github.com/metalagman/slipway/internal/manifest"
	"github.com/metalagman/slipway/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Covers the whole deploy path: package a source tree, submit it, get a
// handle back; then show that a second attempt with an empty manifest dies
// before anything reaches the network.
func TestDeployFlow(t *testing.T) {
	t.Parallel()

	sourceRoot := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.MkdirAll(sourceRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceRoot, "agent_engine_app.py"), []byte("agent_engine = object()\n"), 0o644))

	m := manifest.Manifest{Entries: []manifest.Entry{
		{Name: "google-adk", Version: "1.0.0"},
		{Name: "langchain", Version: "0.3.14"},
		{Name: "python-dotenv", Version: "1.0.1"},
	}}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"name":"projects/acme-dev/locations/us-central1/agentEngines/1"}`))
	}))
	defer srv.Close()
	client := NewClient(remote.NewClient(srv.URL, ""))

	desc, err := artifact.Package(sourceRoot, "app.agent_engine_app:agent_engine", m, "app")
	require.NoError(t, err)

	handle, err := client.Deploy(context.Background(), DeployRequest{
		ProjectID:    "acme-dev",
		Region:       "us-central1",
		Descriptor:   desc,
		StagedURI:    "s3://staging/deployments/d1/bundle.tar.gz",
		Requirements: m,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, string(handle))
	assert.Equal(t, int32(1), calls.Load())

	// Second deploy with an empty manifest: rejected during packaging,
	// nothing is uploaded or submitted.
	_, err = artifact.Package(sourceRoot, "app.agent_engine_app:agent_engine", manifest.Manifest{}, "app")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metalagman/slipway/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_LinksEngineToCatalog(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"name":"apps/search-app/agents/77"}`))
	}))
	defer srv.Close()

	rec := Record{
		AppID:         "search-app",
		DisplayName:   "Professor",
		Description:   "graph search professor",
		AgentEngineID: "projects/acme/locations/us/agentEngines/1",
	}
	name, err := NewClient(remote.NewClient(srv.URL, "")).Register(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "apps/search-app/agents/77", name)
	assert.Equal(t, "/v1/apps/search-app/agents", gotPath)
	assert.Equal(t, "projects/acme/locations/us/agentEngines/1", gotBody["agentEngine"])
}

func TestRegister_EmptyCatalogNameIsAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(remote.NewClient(srv.URL, "")).Register(context.Background(), Record{AppID: "a"})
	require.Error(t, err)
}

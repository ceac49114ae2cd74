package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() JobSpec {
	return JobSpec{
		ProjectID:       "acme-dev",
		Region:          "us-central1",
		DataStoreID:     "rag-store",
		DataStoreRegion: "eu",
		ServiceAccount:  "ingest@acme-dev.iam.example.com",
		PipelineRoot:    "s3://pipelines/root",
		Name:            "data-ingestion",
	}
}

func TestJobSpec_RegionsAreIndependent(t *testing.T) {
	t.Parallel()

	spec := validSpec()
	require.NoError(t, spec.Validate())
	assert.NotEqual(t, spec.Region, spec.DataStoreRegion, "fixture should exercise differing regions")
}

func TestJobSpec_EveryFieldRequired(t *testing.T) {
	t.Parallel()

	for name, mutate := range map[string]func(*JobSpec){
		"project":           func(s *JobSpec) { s.ProjectID = "" },
		"region":            func(s *JobSpec) { s.Region = "" },
		"data store":        func(s *JobSpec) { s.DataStoreID = "" },
		"data store region": func(s *JobSpec) { s.DataStoreRegion = "" },
		"service account":   func(s *JobSpec) { s.ServiceAccount = "" },
		"pipeline root":     func(s *JobSpec) { s.PipelineRoot = "" },
		"pipeline name":     func(s *JobSpec) { s.Name = "" },
	} {
		spec := validSpec()
		mutate(&spec)
		assert.Error(t, spec.Validate(), "missing %s must be rejected", name)
	}
}

func TestJobSpec_MalformedValues(t *testing.T) {
	t.Parallel()

	spec := validSpec()
	spec.ServiceAccount = "not-an-identity"
	assert.Error(t, spec.Validate())

	spec = validSpec()
	spec.PipelineRoot = "just/a/path"
	assert.Error(t, spec.Validate())
}

func TestBuildJob_DeterministicExceptRunID(t *testing.T) {
	t.Parallel()

	spec := validSpec()
	a, err := BuildJob(spec)
	require.NoError(t, err)
	b, err := BuildJob(spec)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID, "each submission gets a fresh run id")
	a.RunID = ""
	b.RunID = ""
	assert.Equal(t, a, b, "same spec and name must compose identical definitions")
	assert.Equal(t, spec.Name, a.DisplayName, "the pipeline name is the stable idempotency key")
}

// Package pipeline builds and submits named data-ingestion jobs to the
// remote pipeline engine.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// State is the lifecycle of a submitted job. Only the transition from
// StateUnsubmitted to StateSubmitted is driven by this package; everything
// after that belongs to the remote scheduler.
type State string

const (
	StateUnsubmitted State = "UNSUBMITTED"
	StateSubmitted   State = "SUBMITTED"
	StateRunning     State = "RUNNING"
	StateSucceeded   State = "SUCCEEDED"
	StateFailed      State = "FAILED"
	StateRejected    State = "REJECTED"
)

// JobSpec describes one ingestion job. All fields are required. The compute
// region and the data store region are independent settings; they often
// differ. Name is the stable key the engine uses to treat re-submissions as
// updates rather than duplicates.
type JobSpec struct {
	ProjectID       string
	Region          string
	DataStoreID     string
	DataStoreRegion string
	ServiceAccount  string
	PipelineRoot    string
	Name            string
}

// Validate reports the first missing or malformed field.
func (s JobSpec) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"project id", s.ProjectID},
		{"region", s.Region},
		{"data store id", s.DataStoreID},
		{"data store region", s.DataStoreRegion},
		{"service account", s.ServiceAccount},
		{"pipeline root", s.PipelineRoot},
		{"pipeline name", s.Name},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}
	if !strings.Contains(s.ServiceAccount, "@") {
		return fmt.Errorf("service account %q is not an account identity", s.ServiceAccount)
	}
	if !strings.Contains(s.PipelineRoot, "://") {
		return fmt.Errorf("pipeline root %q must be a storage URI", s.PipelineRoot)
	}
	return nil
}

// Job is a fully composed job definition ready for submission. Two jobs
// built from the same spec are identical except for RunID.
type Job struct {
	DisplayName    string   `json:"displayName"    yaml:"displayName"`
	RunID          string   `json:"runId"          yaml:"runId"`
	ProjectID      string   `json:"projectId"      yaml:"projectId"`
	Region         string   `json:"region"         yaml:"region"`
	ServiceAccount string   `json:"serviceAccount" yaml:"serviceAccount"`
	PipelineRoot   string   `json:"pipelineRoot"   yaml:"pipelineRoot"`
	Input          JobInput `json:"input"          yaml:"input"`
}

// JobInput binds the ingestion source to the job.
type JobInput struct {
	DataStoreID     string `json:"dataStoreId"     yaml:"dataStoreId"`
	DataStoreRegion string `json:"dataStoreRegion" yaml:"dataStoreRegion"`
}

// BuildJob composes the job definition from a validated spec. The display
// name comes straight from the spec so the remote engine can key on it; the
// run id is fresh per invocation.
func BuildJob(spec JobSpec) (Job, error) {
	if err := spec.Validate(); err != nil {
		return Job{}, err
	}
	return Job{
		DisplayName:    spec.Name,
		RunID:          uuid.NewString(),
		ProjectID:      spec.ProjectID,
		Region:         spec.Region,
		ServiceAccount: spec.ServiceAccount,
		PipelineRoot:   spec.PipelineRoot,
		Input: JobInput{
			DataStoreID:     spec.DataStoreID,
			DataStoreRegion: spec.DataStoreRegion,
		},
	}, nil
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/metalagman/slipway/internal/remote"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Stager persists the rendered job definition under the pipeline root.
type Stager interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// JobRef tracks a submitted job. It is a reference, not a result: the job
// keeps running on the remote scheduler after Submit returns.
type JobRef struct {
	Name  string
	RunID string
	State State
}

// Client submits ingestion jobs to the pipeline engine.
type Client struct {
	rc     *remote.Client
	stager Stager
}

// NewClient wraps a remote client pointed at the pipeline endpoint. stager
// may be nil when no artifact copy of the definition is wanted.
func NewClient(rc *remote.Client, stager Stager) *Client {
	return &Client{rc: rc, stager: stager}
}

type submitResponse struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Submit composes the job from spec, drops the rendered definition under
// the pipeline root, and hands the job to the scheduler. The returned ref
// only means the job was accepted; completion is tracked remotely.
func (c *Client) Submit(ctx context.Context, spec JobSpec) (JobRef, error) {
	job, err := BuildJob(spec)
	if err != nil {
		return JobRef{}, err
	}

	if c.stager != nil {
		rendered, err := yaml.Marshal(job)
		if err != nil {
			return JobRef{}, fmt.Errorf("render job definition: %w", err)
		}
		key := path.Join(rootPrefix(spec.PipelineRoot), job.DisplayName, job.RunID, "job.yaml")
		if _, err := c.stager.Put(ctx, key, bytes.NewReader(rendered), int64(len(rendered)), "application/yaml"); err != nil {
			return JobRef{}, err
		}
	}

	endpoint := fmt.Sprintf("/v1/projects/%s/locations/%s/pipelineJobs", spec.ProjectID, spec.Region)
	var resp submitResponse
	if err := c.rc.PostJSON(ctx, endpoint, job, &resp); err != nil {
		return JobRef{}, fmt.Errorf("submit pipeline %s: %w", spec.Name, err)
	}
	if resp.Name == "" {
		return JobRef{}, fmt.Errorf("submit pipeline %s: engine returned an empty job name", spec.Name)
	}

	state := State(resp.State)
	if state == "" {
		state = StateSubmitted
	}
	log.Info().Str("job", resp.Name).Str("state", string(state)).Msg("pipeline submitted")
	return JobRef{Name: resp.Name, RunID: job.RunID, State: state}, nil
}

// rootPrefix strips the scheme and bucket from a storage URI, leaving the
// object key prefix.
func rootPrefix(rootURI string) string {
	_, rest, ok := strings.Cut(rootURI, "://")
	if !ok {
		return strings.Trim(rootURI, "/")
	}
	_, prefix, _ := strings.Cut(rest, "/")
	return strings.Trim(prefix, "/")
}

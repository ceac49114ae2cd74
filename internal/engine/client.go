// Package engine submits packaged agents to the remote Agent Engine.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/metalagman/slipway/internal/artifact"
	"github.com/metalagman/slipway/internal/manifest"
	"github.com/metalagman/slipway/internal/remote"
	"github.com/rs/zerolog/log"
)

// Handle is the opaque resource name the engine assigns to a deployed
// agent. It is owned by the caller and required for catalog registration.
type Handle string

// DeployRequest carries everything one deploy submission needs.
type DeployRequest struct {
	ProjectID    string
	Region       string
	Descriptor   artifact.Descriptor
	StagedURI    string
	DisplayName  string
	Requirements manifest.Manifest
}

// Validate rejects a malformed request before any network call.
func (r DeployRequest) Validate() error {
	if strings.TrimSpace(r.ProjectID) == "" {
		return fmt.Errorf("project id is required")
	}
	if strings.TrimSpace(r.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if r.Descriptor.Module == "" || r.Descriptor.Object == "" {
		return fmt.Errorf("descriptor entrypoint is incomplete")
	}
	if strings.TrimSpace(r.StagedURI) == "" {
		return fmt.Errorf("staged bundle uri is required")
	}
	if err := r.Requirements.Validate(""); err != nil {
		return err
	}
	return nil
}

// Client talks to the Agent Engine API.
type Client struct {
	rc *remote.Client
}

// NewClient wraps a remote client pointed at the engine endpoint.
func NewClient(rc *remote.Client) *Client {
	return &Client{rc: rc}
}

type deployBody struct {
	DisplayName string           `json:"displayName,omitempty"`
	SourceURI   string           `json:"sourceUri"`
	Entrypoint  entrypointBody   `json:"entrypoint"`
	Requirement []requirementPin `json:"requirements"`
}

type entrypointBody struct {
	Module string `json:"module"`
	Object string `json:"object"`
}

type requirementPin struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type deployResponse struct {
	Name string `json:"name"`
}

// Deploy uploads the staged bundle reference to the engine and returns the
// resulting handle. This call is not idempotent: each submission creates a
// distinct remote agent unless the engine itself deduplicates by content or
// name, so callers re-running a deploy should expect a new handle.
func (c *Client) Deploy(ctx context.Context, req DeployRequest) (Handle, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	pins := make([]requirementPin, 0, len(req.Requirements.Entries))
	for _, e := range req.Requirements.Entries {
		pins = append(pins, requirementPin{Name: e.Name, Version: e.Version})
	}
	body := deployBody{
		DisplayName: req.DisplayName,
		SourceURI:   req.StagedURI,
		Entrypoint:  entrypointBody{Module: req.Descriptor.Module, Object: req.Descriptor.Object},
		Requirement: pins,
	}

	path := fmt.Sprintf("/v1/projects/%s/locations/%s/agentEngines", req.ProjectID, req.Region)
	var resp deployResponse
	if err := c.rc.PostJSON(ctx, path, body, &resp); err != nil {
		return "", fmt.Errorf("deploy agent: %w", err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("deploy agent: engine returned an empty resource name")
	}
	log.Info().Str("handle", resp.Name).Msg("agent deployed")
	return Handle(resp.Name), nil
}

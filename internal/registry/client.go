package registry

import (
	"context"
	"fmt"

	"github.com/metalagman/slipway/internal/remote"
	"github.com/rs/zerolog/log"
)

// Client registers agents with the enterprise catalog.
type Client struct {
	rc *remote.Client
}

// NewClient wraps a remote client pointed at the catalog endpoint.
func NewClient(rc *remote.Client) *Client {
	return &Client{rc: rc}
}

type registerBody struct {
	DisplayName     string `json:"displayName"`
	Description     string `json:"description,omitempty"`
	ToolDescription string `json:"toolDescription,omitempty"`
	AgentEngine     string `json:"agentEngine"`
}

type registerResponse struct {
	Name string `json:"name"`
}

// Register links the record's agent engine to the catalog entry and returns
// the catalog resource name. Duplicate registrations are the catalog's
// concern; this client does not de-duplicate.
func (c *Client) Register(ctx context.Context, rec Record) (string, error) {
	body := registerBody{
		DisplayName:     rec.DisplayName,
		Description:     rec.Description,
		ToolDescription: rec.ToolDescription,
		AgentEngine:     rec.AgentEngineID,
	}
	path := fmt.Sprintf("/v1/apps/%s/agents", rec.AppID)
	var resp registerResponse
	if err := c.rc.PostJSON(ctx, path, body, &resp); err != nil {
		return "", fmt.Errorf("register agent: %w", err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("register agent: catalog returned an empty resource name")
	}
	log.Info().Str("name", resp.Name).Msg("agent registered")
	return resp.Name, nil
}

// Package registry links deployed agent engines into the enterprise
// catalog.
package registry

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted when a registration field is not passed
// as a flag.
const (
	EnvAppID           = "SLIPWAY_APP_ID"
	EnvDisplayName     = "SLIPWAY_DISPLAY_NAME"
	EnvDescription     = "SLIPWAY_DESCRIPTION"
	EnvToolDescription = "SLIPWAY_TOOL_DESCRIPTION"
	EnvAgentEngineID   = "SLIPWAY_AGENT_ENGINE_ID"
)

// Record is the catalog entry for one deployed agent. It is assembled at
// registration time and handed to the catalog; nothing is persisted locally.
type Record struct {
	AppID           string
	DisplayName     string
	Description     string
	ToolDescription string
	AgentEngineID   string
}

// MissingFieldsError names every required registration field that could not
// be resolved from any input channel.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required registration fields: %s", strings.Join(e.Fields, ", "))
}

// Prompter supplies a field value interactively.
type Prompter interface {
	Prompt(label, placeholder string) (string, error)
}

// Resolve assembles a fully populated Record from the given inputs, the
// environment, and (when prompter is non-nil) interactive prompts, in that
// order per field. With no prompter, any missing required field makes the
// whole resolution fail with a MissingFieldsError before any network call.
func Resolve(in Record, prompter Prompter) (Record, error) {
	fields := []struct {
		label    string
		env      string
		value    *string
		required bool
	}{
		{"application id", EnvAppID, &in.AppID, true},
		{"agent engine id", EnvAgentEngineID, &in.AgentEngineID, true},
		{"display name", EnvDisplayName, &in.DisplayName, true},
		{"description", EnvDescription, &in.Description, false},
		{"tool description", EnvToolDescription, &in.ToolDescription, false},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(*f.value) != "" {
			continue
		}
		if v, ok := os.LookupEnv(f.env); ok && strings.TrimSpace(v) != "" {
			*f.value = strings.TrimSpace(v)
			continue
		}
		if prompter != nil {
			v, err := prompter.Prompt(f.label, f.env)
			if err != nil {
				return Record{}, fmt.Errorf("prompt %s: %w", f.label, err)
			}
			*f.value = strings.TrimSpace(v)
		}
		if strings.TrimSpace(*f.value) == "" && f.required {
			missing = append(missing, f.label)
		}
	}
	if len(missing) > 0 {
		return Record{}, &MissingFieldsError{Fields: missing}
	}
	return in, nil
}

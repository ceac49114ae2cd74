// Package execx runs external commands for dependency resolution.
package execx

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Runner executes a command and returns its stdout.
type Runner interface {
	Output(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// CmdRunner runs commands with os/exec.
type CmdRunner struct{}

// Output runs the command in dir and returns stdout. On failure the error
// includes trimmed stderr so resolution failures are actionable.
func (CmdRunner) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	log.Debug().Str("dir", dir).Str("cmd", name).Strs("args", args).Msg("running command")
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

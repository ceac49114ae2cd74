package manifest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/metalagman/slipway/internal/execx"
	"github.com/rs/zerolog/log"
)

// ErrResolution indicates that every resolution strategy failed.
var ErrResolution = errors.New("dependency resolution exhausted all strategies")

// Strategy is one way to produce a locked dependency export. Strategies are
// tried in order; the first one whose output parses to a non-empty manifest
// wins.
type Strategy struct {
	Name string
	Cmd  []string
}

// DefaultStrategies returns the resolution command chain: the current
// exporter flag set first, then the older flag set still accepted by
// earlier tool versions.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name: "uv-export",
			Cmd:  []string{"uv", "export", "--no-hashes", "--no-header", "--no-dev", "--no-emit-project", "--no-annotate", "--frozen"},
		},
		{
			Name: "uv-export-legacy",
			Cmd:  []string{"uv", "export", "--no-hashes", "--no-header", "--no-dev", "--frozen"},
		},
	}
}

// Resolver flattens a project's declared dependencies into a Manifest.
type Resolver struct {
	runner     execx.Runner
	strategies []Strategy
	selfName   string
}

// NewResolver creates a resolver for the project named selfName. The self
// package is dropped from any strategy output so the manifest never pins
// the project being packaged.
func NewResolver(runner execx.Runner, selfName string, strategies ...Strategy) *Resolver {
	if runner == nil {
		runner = execx.CmdRunner{}
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{runner: runner, strategies: strategies, selfName: selfName}
}

// Resolve runs the strategy chain in sourceRoot. A strategy that errors or
// produces an empty manifest is logged and the next one is tried; when all
// strategies are exhausted the whole resolution fails with ErrResolution.
// An empty manifest is never returned as success.
func (r *Resolver) Resolve(ctx context.Context, sourceRoot string) (Manifest, error) {
	var failures []string
	for _, s := range r.strategies {
		out, err := r.runner.Output(ctx, sourceRoot, s.Cmd[0], s.Cmd[1:]...)
		if err != nil {
			log.Warn().Err(err).Str("strategy", s.Name).Msg("resolution strategy failed")
			failures = append(failures, fmt.Sprintf("%s: %v", s.Name, err))
			continue
		}
		m, err := parseResolved(out, r.selfName)
		if err != nil {
			log.Warn().Err(err).Str("strategy", s.Name).Msg("resolution output rejected")
			failures = append(failures, fmt.Sprintf("%s: %v", s.Name, err))
			continue
		}
		log.Debug().Str("strategy", s.Name).Int("packages", len(m.Entries)).Msg("dependencies resolved")
		return m, nil
	}
	return Manifest{}, fmt.Errorf("%w: %s", ErrResolution, strings.Join(failures, "; "))
}

// parseResolved parses raw exporter output into a validated manifest. The
// parser tolerates the noise exporters emit (comments, blank lines, option
// lines, environment markers) and strips it; everything left must be a
// clean name==version pin.
func parseResolved(out, selfName string) (Manifest, error) {
	var m Manifest
	self := canonicalName(selfName)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if marker, _, found := strings.Cut(line, ";"); found {
			line = strings.TrimSpace(marker)
		}
		name, version, ok := strings.Cut(line, "==")
		if !ok {
			return Manifest{}, fmt.Errorf("unpinned requirement %q", line)
		}
		name = strings.TrimSpace(name)
		if self != "" && canonicalName(name) == self {
			continue
		}
		m.Entries = append(m.Entries, Entry{Name: name, Version: strings.TrimSpace(version)})
	}
	if err := m.Validate(selfName); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Package config provides configuration loading and management for slipway.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/metalagman/slipway/internal/objectstore"
)

// Config is the root configuration. The project and region are explicit,
// required settings: slipway never reads an ambient cloud context, so every
// invocation is deterministic and reproducible.
type Config struct {
	Project   string             `json:"project"   mapstructure:"project"`
	Region    string             `json:"region"    mapstructure:"region"`
	Engine    RemoteConfig       `json:"engine"    mapstructure:"engine"`
	Pipeline  RemoteConfig       `json:"pipeline"  mapstructure:"pipeline"`
	Catalog   RemoteConfig       `json:"catalog"   mapstructure:"catalog"`
	Staging   objectstore.Config `json:"staging"   mapstructure:"staging"`
	Retention RetentionPolicy    `json:"retention" mapstructure:"retention"`
}

// RemoteConfig points at one remote service. The bearer token is read from
// the named environment variable so credentials stay out of the file.
type RemoteConfig struct {
	Endpoint string `json:"endpoint"            mapstructure:"endpoint"`
	TokenEnv string `json:"token_env,omitempty" mapstructure:"token_env"`
}

// Token reads the bearer token for this remote, if configured.
func (r RemoteConfig) Token() string {
	if r.TokenEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(r.TokenEnv))
}

// RetentionPolicy defines how much local deployment history to keep.
type RetentionPolicy struct {
	KeepLast int `json:"keep_last,omitempty" mapstructure:"keep_last"`
	KeepDays int `json:"keep_days,omitempty" mapstructure:"keep_days"`
}

// Validate enforces the required base fields.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Project) == "" {
		return fmt.Errorf("project is required (set it in the config file, no ambient project is read)")
	}
	if strings.TrimSpace(c.Region) == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}

// RequireEndpoint checks that the named remote has an endpoint configured.
func RequireEndpoint(name string, r RemoteConfig) error {
	if strings.TrimSpace(r.Endpoint) == "" {
		return fmt.Errorf("%s.endpoint is required for this command", name)
	}
	return nil
}

package memstore

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tenantkit"
)

// TenantConfig describes one tenant in configuration.
type TenantConfig struct {
	ID               string            `yaml:"id" json:"id"`
	Identifier       string            `yaml:"identifier" json:"identifier"`
	Name             string            `yaml:"name,omitempty" json:"name,omitempty"`
	ConnectionString string            `yaml:"connection_string,omitempty" json:"connection_string,omitempty"`
	Items            map[string]string `yaml:"items,omitempty" json:"items,omitempty"`
}

// Config describes a whole registry: the tenant list plus registry-wide
// settings. The scalar settings also carry env tags so deployments can
// override them without touching the tenant list.
type Config struct {
	Tenants                 []TenantConfig `yaml:"tenants" json:"tenants" env:"-"`
	DefaultConnectionString string         `yaml:"default_connection_string,omitempty" json:"default_connection_string,omitempty" env:"TENANT_DEFAULT_CONNECTION_STRING"`
	CaseSensitive           bool           `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty" env:"TENANT_CASE_SENSITIVE" envDefault:"false"`
}

// NewFromConfig builds a fresh registry from the configuration. Tenants
// register in descriptor order and any failure aborts population
// immediately with ErrInvalidConfig naming the offending tenant:
//
//   - a descriptor with a blank id or identifier
//   - a duplicate identifier (under the comparison policy) or duplicate id
//
// On failure no store is returned, so a corrected configuration always
// populates a fresh registry rather than patching a half-built one.
//
// A descriptor with a blank connection string inherits
// DefaultConnectionString; an explicit one never inherits.
func NewFromConfig(cfg Config) (*Store, error) {
	var opts []Option
	if cfg.CaseSensitive {
		opts = append(opts, WithCaseSensitive())
	}
	store := New(opts...)

	for i, tc := range cfg.Tenants {
		if strings.TrimSpace(tc.ID) == "" {
			return nil, fmt.Errorf("%w: tenants[%d]: blank id", ErrInvalidConfig, i)
		}
		if strings.TrimSpace(tc.Identifier) == "" {
			return nil, fmt.Errorf("%w: tenants[%d]: blank identifier", ErrInvalidConfig, i)
		}

		tenant := &tenantkit.Tenant{
			ID:               tc.ID,
			Identifier:       tc.Identifier,
			Name:             tc.Name,
			ConnectionString: tc.ConnectionString,
			Items:            maps.Clone(tc.Items),
		}
		if strings.TrimSpace(tenant.ConnectionString) == "" {
			tenant.ConnectionString = cfg.DefaultConnectionString
		}

		added, err := store.TryAdd(context.Background(), tenant)
		if err != nil {
			return nil, fmt.Errorf("%w: tenant %q: %w", ErrInvalidConfig, tc.Identifier, err)
		}
		if !added {
			return nil, fmt.Errorf("%w: duplicate tenant %q", ErrInvalidConfig, tc.Identifier)
		}
	}

	return store, nil
}

// LoadConfig reads a registry configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// NewFromFile loads a YAML configuration file and builds a registry from
// it. Shorthand for LoadConfig followed by NewFromConfig.
func NewFromFile(path string) (*Store, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}

package httpstore

import "time"

// Config holds the store settings loadable from the environment.
type Config struct {
	Endpoint string        `env:"TENANT_HTTP_ENDPOINT,required"`
	Timeout  time.Duration `env:"TENANT_HTTP_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a store from configuration. Explicit options
// take precedence over the configured values.
func NewFromConfig(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Timeout > 0 {
		opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	}
	return New(cfg.Endpoint, opts...)
}

package tenantkit

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Middleware creates HTTP middleware that resolves the tenant for each
// request and adds it to the request context. Resolution order: skip-path
// check, resolver, cache, provider, fallback.
//
// Requests without an identifier pass through untouched unless a fallback
// identifier is configured; failed lookups are delegated to the error
// handler (404 for unknown tenants by default).
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("tenantkit: middleware requires a resolver")
	}
	if provider == nil {
		panic("tenantkit: middleware requires a provider")
	}

	cfg := &config{
		cache:        NewInMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: defaultErrorHandler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolver(r)
			if err != nil {
				cfg.logger.DebugContext(r.Context(), "tenant resolution failed", "error", err)
				cfg.errorHandler(w, r, err)
				return
			}

			if identifier == "" {
				if cfg.fallback == "" {
					next.ServeHTTP(w, r)
					return
				}
				identifier = cfg.fallback
			}

			if cached, ok := cfg.cache.Get(r.Context(), identifier); ok {
				next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), cached)))
				return
			}

			tenant, err := provider.GetByIdentifier(r.Context(), identifier)
			if errors.Is(err, ErrTenantNotFound) && cfg.fallback != "" && identifier != cfg.fallback {
				cfg.logger.DebugContext(r.Context(), "tenant not found, trying fallback",
					"identifier", identifier, "fallback", cfg.fallback)
				identifier = cfg.fallback
				tenant, err = provider.GetByIdentifier(r.Context(), identifier)
			}
			if err != nil {
				if !errors.Is(err, ErrTenantNotFound) {
					cfg.logger.ErrorContext(r.Context(), "tenant lookup failed",
						"identifier", identifier, "error", err)
				}
				cfg.errorHandler(w, r, err)
				return
			}

			cfg.cache.Set(r.Context(), identifier, tenant, cfg.cacheTTL)
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
		})
	}
}

// RequireTenant creates middleware that rejects requests without a tenant
// in the context. Mount it behind Middleware to protect tenant-only routes.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, ok := FromContext(r.Context())
			if !ok || tenant == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package tenantkit

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant returns a copy of ctx carrying the tenant.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the tenant from the context.
// Returns nil, false if no tenant is present.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(contextKey{}).(*Tenant)
	return tenant, ok
}

// IDFromContext retrieves just the tenant ID from the context.
// Returns an empty string and false if no tenant is present.
func IDFromContext(ctx context.Context) (string, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return "", false
	}
	return tenant.ID, true
}

// IdentifierFromContext retrieves the tenant identifier from the context.
// Returns an empty string and false if no tenant is present.
func IdentifierFromContext(ctx context.Context) (string, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return "", false
	}
	return tenant.Identifier, true
}

// MustFromContext retrieves the tenant from the context.
// Panics if no tenant is present. Use this only in handlers that are
// guaranteed to run behind RequireTenant.
func MustFromContext(ctx context.Context) *Tenant {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		panic("tenantkit: no tenant in context")
	}
	return tenant
}

// LoggerExtractor returns a context extractor for slog-based loggers that
// injects the tenant ID into every log record written with a tenant-scoped
// context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}

package tenantkit

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidIdentifier is returned when an extracted identifier has an
	// invalid format.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrInvalidTenant is returned when a tenant passed to a store is nil
	// or missing its id or identifier.
	ErrInvalidTenant = errors.New("invalid tenant")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)

package tenantkit

import (
	"context"
	"maps"

	"github.com/google/uuid"
)

// Tenant represents a single tenant known to the application.
//
// ID is the internal primary key and never changes once assigned.
// Identifier is the external-facing lookup key (subdomain, header value,
// route parameter) and is unique within a store under the store's case
// policy. Items carries arbitrary per-tenant metadata; stores copy it on
// ingest and hand out copies, so mutating a returned Tenant never changes
// store state.
type Tenant struct {
	ID               string            `json:"id" yaml:"id"`
	Identifier       string            `json:"identifier" yaml:"identifier"`
	Name             string            `json:"name,omitempty" yaml:"name,omitempty"`
	ConnectionString string            `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`
	Items            map[string]string `json:"items,omitempty" yaml:"items,omitempty"`
}

// NewTenant creates a tenant with a generated unique ID.
// Use a struct literal instead when the ID comes from an external system.
func NewTenant(identifier, name string) *Tenant {
	return &Tenant{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Name:       name,
	}
}

// Clone returns a deep copy of the tenant. The Items map is copied so the
// original and the clone never share mutable state.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	c.Items = maps.Clone(t.Items)
	return &c
}

// Item returns the metadata value for key and whether it is present.
func (t *Tenant) Item(key string) (string, bool) {
	v, ok := t.Items[key]
	return v, ok
}

// Provider loads tenant information from a data source. It is the minimal
// read-side contract consumed by the middleware; every store in this module
// implements it.
type Provider interface {
	// GetByIdentifier retrieves a tenant by its external identifier.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}

// Store is the full registry contract implemented by writable backends.
//
// TryAdd must be safe under concurrent invocation: two racing calls with
// colliding identifiers result in exactly one success. A duplicate is a
// normal outcome signaled by the boolean, never an error.
type Store interface {
	Provider

	// TryAdd inserts the tenant if no existing entry has the same
	// identifier under the store's case policy (or the same ID). It
	// returns false and leaves the store unchanged on a collision.
	TryAdd(ctx context.Context, tenant *Tenant) (bool, error)

	// Remove deletes the tenant with the given identifier. It returns
	// false when no such tenant exists.
	Remove(ctx context.Context, identifier string) (bool, error)

	// All returns a snapshot of every tenant in the store.
	All(ctx context.Context) ([]*Tenant, error)
}

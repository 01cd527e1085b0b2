package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/tenantkit"
)

// Store is an in-memory tenant registry. It is safe for concurrent use:
// a single mutex orders all registrations and lookups, so a lookup sees
// every registration that completed before it regardless of how startup
// and steady-state calls interleave.
//
// The identifier comparison policy is fixed at construction and applies
// to every operation for the lifetime of the store.
type Store struct {
	mu            sync.RWMutex
	byKey         map[string]*tenantkit.Tenant // folded identifier -> tenant
	ids           map[string]string            // tenant id -> folded identifier
	caseSensitive bool
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithCaseSensitive makes identifier comparison exact. By default "Acme"
// and "acme" name the same tenant.
func WithCaseSensitive() Option {
	return func(s *Store) {
		s.caseSensitive = true
	}
}

// New creates an empty registry. Identifiers compare case-insensitively
// unless WithCaseSensitive is given.
func New(opts ...Option) *Store {
	s := &Store{
		byKey: make(map[string]*tenantkit.Tenant),
		ids:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// key folds the identifier according to the comparison policy. Folding is
// full Unicode case folding, not ASCII lowercasing, so identifiers that
// differ only in case match in any script. A Caser carries internal state,
// so one is created per call instead of being shared.
func (s *Store) key(identifier string) string {
	if s.caseSensitive {
		return identifier
	}
	return cases.Fold().String(identifier)
}

// TryAdd inserts the tenant unless an existing entry already uses its
// identifier (under the comparison policy) or its ID. It reports whether
// the tenant was added; a collision is a normal outcome, not an error,
// so concurrent registrations of the same identifier settle to exactly
// one winner. The store keeps its own copy of the tenant.
func (s *Store) TryAdd(ctx context.Context, tenant *tenantkit.Tenant) (bool, error) {
	if tenant == nil {
		return false, tenantkit.ErrInvalidTenant
	}
	if strings.TrimSpace(tenant.ID) == "" {
		return false, fmt.Errorf("%w: blank id", tenantkit.ErrInvalidTenant)
	}
	if strings.TrimSpace(tenant.Identifier) == "" {
		return false, fmt.Errorf("%w: blank identifier", tenantkit.ErrInvalidTenant)
	}

	key := s.key(tenant.Identifier)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[key]; exists {
		return false, nil
	}
	if _, exists := s.ids[tenant.ID]; exists {
		return false, nil
	}

	s.byKey[key] = tenant.Clone()
	s.ids[tenant.ID] = key
	return true, nil
}

// GetByIdentifier retrieves a tenant by identifier under the comparison
// policy. The returned tenant is a copy; mutating it does not affect the
// store. Returns tenantkit.ErrTenantNotFound when absent.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*tenantkit.Tenant, error) {
	key := s.key(identifier)

	s.mu.RLock()
	tenant, ok := s.byKey[key]
	s.mu.RUnlock()

	if !ok {
		return nil, tenantkit.ErrTenantNotFound
	}
	return tenant.Clone(), nil
}

// Remove deletes the tenant with the given identifier and reports whether
// one was removed.
func (s *Store) Remove(ctx context.Context, identifier string) (bool, error) {
	key := s.key(identifier)

	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.byKey[key]
	if !ok {
		return false, nil
	}
	delete(s.byKey, key)
	delete(s.ids, tenant.ID)
	return true, nil
}

// All returns a snapshot of every tenant, sorted by identifier. The
// snapshot holds copies and does not change with the store afterwards.
func (s *Store) All(ctx context.Context) ([]*tenantkit.Tenant, error) {
	s.mu.RLock()
	tenants := make([]*tenantkit.Tenant, 0, len(s.byKey))
	for _, tenant := range s.byKey {
		tenants = append(tenants, tenant.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(tenants, func(a, b *tenantkit.Tenant) int {
		return strings.Compare(a.Identifier, b.Identifier)
	})
	return tenants, nil
}

// Len returns the number of registered tenants.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

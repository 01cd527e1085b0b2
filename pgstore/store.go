package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/cases"

	"github.com/dmitrymomot/tenantkit"
)

// Store is a PostgreSQL-backed tenant registry. Identifier uniqueness is
// enforced by a unique constraint on the folded identifier key, so racing
// TryAdd calls settle inside the database: exactly one insert wins and
// the rest observe a no-op.
//
// The comparison policy must match the data: a store created with
// WithCaseSensitive only sees rows written under the same policy.
type Store struct {
	pool          *pgxpool.Pool
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

// New creates a store over an established connection pool.
// Run Migrate first to create the tenants table.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	if pool == nil {
		panic("pgstore: store requires a connection pool")
	}

	s := &Store{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(identifier string) string {
	if s.caseSensitive {
		return identifier
	}
	return cases.Fold().String(identifier)
}

const insertTenant = `
INSERT INTO tenants (id, identifier, identifier_key, name, connection_string, items)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT DO NOTHING`

// TryAdd inserts the tenant unless its identifier key or id is already
// taken. The conflict is settled by the database, so concurrent calls
// from any number of processes produce exactly one row.
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

	items := tenant.Items
	if items == nil {
		items = map[string]string{}
	}

	tag, err := s.pool.Exec(ctx, insertTenant,
		tenant.ID, tenant.Identifier, s.key(tenant.Identifier),
		tenant.Name, tenant.ConnectionString, items,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert tenant %q: %w", tenant.Identifier, err)
	}
	return tag.RowsAffected() == 1, nil
}

const selectTenant = `
SELECT id, identifier, name, connection_string, items
FROM tenants
WHERE identifier_key = $1`

// GetByIdentifier retrieves a tenant by identifier under the comparison
// policy. Returns tenantkit.ErrTenantNotFound when absent.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*tenantkit.Tenant, error) {
	var tenant tenantkit.Tenant
	err := s.pool.QueryRow(ctx, selectTenant, s.key(identifier)).Scan(
		&tenant.ID, &tenant.Identifier, &tenant.Name, &tenant.ConnectionString, &tenant.Items,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenantkit.ErrTenantNotFound
		}
		return nil, fmt.Errorf("select tenant %q: %w", identifier, err)
	}
	return &tenant, nil
}

const deleteTenant = `DELETE FROM tenants WHERE identifier_key = $1`

// Remove deletes the tenant with the given identifier and reports whether
// a row was removed.
func (s *Store) Remove(ctx context.Context, identifier string) (bool, error) {
	tag, err := s.pool.Exec(ctx, deleteTenant, s.key(identifier))
	if err != nil {
		return false, fmt.Errorf("delete tenant %q: %w", identifier, err)
	}
	return tag.RowsAffected() > 0, nil
}

const selectAllTenants = `
SELECT id, identifier, name, connection_string, items
FROM tenants
ORDER BY identifier`

// All returns every registered tenant sorted by identifier.
func (s *Store) All(ctx context.Context) ([]*tenantkit.Tenant, error) {
	rows, err := s.pool.Query(ctx, selectAllTenants)
	if err != nil {
		return nil, fmt.Errorf("select tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenantkit.Tenant
	for rows.Next() {
		var tenant tenantkit.Tenant
		if err := rows.Scan(
			&tenant.ID, &tenant.Identifier, &tenant.Name, &tenant.ConnectionString, &tenant.Items,
		); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, &tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select tenants: %w", err)
	}
	return tenants, nil
}

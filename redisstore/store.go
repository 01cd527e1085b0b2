package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/cases"

	"github.com/dmitrymomot/tenantkit"
)

// DefaultKeyPrefix namespaces the store's keys in a shared Redis database.
const DefaultKeyPrefix = "tenants"

// tryAddScript registers a tenant only when neither its identifier key
// nor its id is taken. Running as a script keeps the two existence checks
// and the writes atomic, so racing registrations settle to one winner
// without a window where a lookup could see a loser's tenant.
var tryAddScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	return 0
end
if redis.call('HEXISTS', KEYS[2], ARGV[2]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[3])
redis.call('HSET', KEYS[2], ARGV[2], ARGV[1])
return 1
`)

// removeScript deletes a tenant and its id reservation together.
var removeScript = redis.NewScript(`
local payload = redis.call('HGET', KEYS[1], ARGV[1])
if not payload then
	return 0
end
redis.call('HDEL', KEYS[1], ARGV[1])
local ok, tenant = pcall(cjson.decode, payload)
if ok and tenant.id then
	redis.call('HDEL', KEYS[2], tenant.id)
end
return 1
`)

// Store is a Redis-backed tenant registry. Tenants live as JSON values in
// a hash keyed by the folded identifier; a companion hash reserves tenant
// ids. Both structures are updated atomically through scripts.
type Store struct {
	client        redis.UniversalClient
	keyPrefix     string
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

// WithKeyPrefix namespaces the store's keys, for running several
// registries in one Redis database.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// New creates a store over an established Redis client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	if client == nil {
		panic("redisstore: store requires a redis client")
	}

	s := &Store{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) tenantsKey() string { return s.keyPrefix }

func (s *Store) idsKey() string { return s.keyPrefix + ":ids" }

func (s *Store) key(identifier string) string {
	if s.caseSensitive {
		return identifier
	}
	return cases.Fold().String(identifier)
}

// TryAdd registers the tenant unless its identifier (under the comparison
// policy) or id is already taken. The decision is made atomically in
// Redis, so concurrent calls from any number of processes produce exactly
// one registration.
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

	payload, err := json.Marshal(tenant)
	if err != nil {
		return false, fmt.Errorf("marshal tenant %q: %w", tenant.Identifier, err)
	}

	added, err := tryAddScript.Run(ctx, s.client,
		[]string{s.tenantsKey(), s.idsKey()},
		s.key(tenant.Identifier), tenant.ID, payload,
	).Int()
	if err != nil {
		return false, fmt.Errorf("register tenant %q: %w", tenant.Identifier, err)
	}
	return added == 1, nil
}

// GetByIdentifier retrieves a tenant by identifier under the comparison
// policy. Returns tenantkit.ErrTenantNotFound when absent.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*tenantkit.Tenant, error) {
	payload, err := s.client.HGet(ctx, s.tenantsKey(), s.key(identifier)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, tenantkit.ErrTenantNotFound
		}
		return nil, fmt.Errorf("fetch tenant %q: %w", identifier, err)
	}

	var tenant tenantkit.Tenant
	if err := json.Unmarshal(payload, &tenant); err != nil {
		return nil, fmt.Errorf("decode tenant %q: %w", identifier, err)
	}
	return &tenant, nil
}

// Remove deletes the tenant with the given identifier, releasing both the
// identifier and the id, and reports whether a tenant was removed.
func (s *Store) Remove(ctx context.Context, identifier string) (bool, error) {
	removed, err := removeScript.Run(ctx, s.client,
		[]string{s.tenantsKey(), s.idsKey()},
		s.key(identifier),
	).Int()
	if err != nil {
		return false, fmt.Errorf("remove tenant %q: %w", identifier, err)
	}
	return removed == 1, nil
}

// All returns every registered tenant sorted by identifier.
func (s *Store) All(ctx context.Context) ([]*tenantkit.Tenant, error) {
	entries, err := s.client.HGetAll(ctx, s.tenantsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	tenants := make([]*tenantkit.Tenant, 0, len(entries))
	for key, payload := range entries {
		var tenant tenantkit.Tenant
		if err := json.Unmarshal([]byte(payload), &tenant); err != nil {
			return nil, fmt.Errorf("decode tenant %q: %w", key, err)
		}
		tenants = append(tenants, &tenant)
	}

	slices.SortFunc(tenants, func(a, b *tenantkit.Tenant) int {
		return strings.Compare(a.Identifier, b.Identifier)
	})
	return tenants, nil
}

// Package tenantkit provides multi-tenancy building blocks for SaaS applications:
// a tenant entity, pluggable tenant stores, HTTP identification strategies, and
// context propagation.
//
// The root package defines the shared vocabulary. Tenants live in a Store, are
// looked up through the narrower Provider interface, are identified on incoming
// requests by a Resolver, and travel through the application inside
// context.Context. Concrete store backends live in subpackages so that
// applications import only the drivers they actually use.
//
// # Architecture
//
// The package is built around four core concepts:
//
// 1. Tenant - The entity itself: id, identifier, display name, connection string, items
// 2. Stores - Registries of tenants with concurrency-safe registration and lookup
// 3. Resolvers - Extract tenant identifiers from HTTP requests using various strategies
// 4. Middleware - Orchestrates resolution, caching, and context propagation
//
// This separation allows applications to mix and match identification strategies
// while keeping the tenant loading logic independent.
//
// # Usage
//
//	import (
//		"github.com/dmitrymomot/tenantkit"
//		"github.com/dmitrymomot/tenantkit/memstore"
//	)
//
//	// Create a store and register tenants
//	store := memstore.New()
//	added, err := store.TryAdd(ctx, tenantkit.NewTenant("acme", "Acme Corp"))
//
//	// Create a resolver (e.g., subdomain-based)
//	resolver := tenantkit.NewSubdomainResolver(".saas.com")
//
//	// Create middleware with caching
//	mw := tenantkit.Middleware(resolver, store,
//		tenantkit.WithCacheTTL(10*time.Minute),
//		tenantkit.WithSkipPaths([]string{"/health", "/metrics"}),
//	)
//
//	// Apply to your router
//	router.Use(mw)
//
//	// Access tenant in handlers
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t, ok := tenantkit.FromContext(r.Context())
//		if !ok {
//			// Handle no tenant case
//			return
//		}
//		// Use tenant data
//	}
//
// # Stores
//
// A Store holds registered tenants. TryAdd reports whether the tenant was added:
// it returns false without an error when the identifier (or id) is already taken,
// so concurrent registration races resolve to exactly one winner with no failure
// path to handle. Backends:
//
//   - memstore: in-memory registry with a configurable case-sensitivity policy,
//     plus bulk population from configuration
//   - pgstore: PostgreSQL-backed store
//   - redisstore: Redis-backed store
//   - mongostore: MongoDB-backed store
//   - httpstore: read-only provider backed by a remote HTTP endpoint
//
// All stores settle duplicate registration atomically, either under a lock
// (memstore) or on the server (unique constraints, scripted writes).
//
// # Resolver Strategies
//
// The package includes several built-in resolvers:
//
// - SubdomainResolver: Extracts tenant from subdomain (e.g., "acme" from "acme.app.com")
// - HeaderResolver: Reads tenant from HTTP header (e.g., "X-Tenant-ID")
// - PathResolver: Extracts from URL path segment (e.g., "/tenants/{id}/dashboard")
// - RouteResolver: Reads a chi route parameter (e.g., "/t/{tenant}/dashboard")
// - StaticResolver: Always returns a fixed identifier, for single-tenant deployments
// - CompositeResolver: Tries multiple strategies in order
//
// A Resolver is a plain func, so any function with the right signature acts as a
// custom strategy.
//
// # Caching
//
// The middleware includes automatic caching to reduce store lookups. The default
// in-memory cache is a bounded LRU with TTL expiration and concurrent access.
// Custom cache implementations can be provided via the Cache interface, or
// caching disabled entirely with NewNoOpCache.
//
// # Error Handling
//
// The package defines specific errors for common failure scenarios:
//
//   - ErrTenantNotFound: Tenant does not exist
//   - ErrInvalidIdentifier: Malformed tenant identifier
//   - ErrInvalidTenant: Tenant entity is missing required fields
//   - ErrNoTenantInContext: Required tenant is missing from context
//
// Custom error handlers can be configured to return appropriate HTTP responses.
//
// # Fallback Tenant
//
// Deployments that serve a default tenant when none is identified configure it
// with WithFallback. The fallback identifier is used when the resolver yields no
// identifier and again when the resolved identifier is unknown to the store.
package tenantkit

// Package httpstore looks tenants up from a remote HTTP service, for
// deployments where tenant records live behind a control-plane API
// instead of a database the application can reach.
//
// The store implements tenantkit.Provider only: registration happens in
// the remote service, lookups here. Point it at a URL template and plug
// it into the middleware:
//
//	store, err := httpstore.New("https://control-plane.internal/tenants/{identifier}")
//	if err != nil {
//		return err
//	}
//	mw := tenantkit.Middleware(resolver, store)
//
// Responses are expected to be JSON-encoded tenantkit.Tenant values; a
// 404 maps to tenantkit.ErrTenantNotFound. Pair the store with the
// middleware cache to keep remote round trips off the hot path.
package httpstore

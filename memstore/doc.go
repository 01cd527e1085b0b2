// Package memstore provides an in-memory tenant registry with a fixed
// identifier comparison policy and bulk population from configuration.
//
// The registry is the reference tenantkit.Store: registration and lookup
// are linearizable, duplicate registration is reported through TryAdd's
// boolean rather than an error, and stored tenants are copied on the way
// in and out so callers never share mutable state with the store.
//
// # Comparison Policy
//
// Identifiers compare case-insensitively by default using Unicode case
// folding, so "Acme", "acme" and "ACME" name the same tenant. Pass
// WithCaseSensitive to New for exact comparison. The policy is fixed for
// the lifetime of the store.
//
// # Population From Configuration
//
// NewFromConfig registers a list of tenant descriptors in order and fails
// fast: the first blank field or duplicate identifier aborts population
// with ErrInvalidConfig naming the offending tenant, and no store is
// returned. NewFromFile does the same from a YAML file:
//
//	tenants:
//	  - id: "1"
//	    identifier: acme
//	    name: Acme Corp
//	  - id: "2"
//	    identifier: globex
//	    connection_string: postgres://globex
//	default_connection_string: postgres://shared
//
// Descriptors without a connection string inherit the default one.
package memstore

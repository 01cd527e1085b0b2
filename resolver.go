package tenantkit

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	// MaxIdentifierLength bounds extracted identifiers to keep them
	// DNS-compatible and to reject abusive inputs early.
	MaxIdentifierLength = 63

	// DefaultHeaderName is the header consulted by NewHeaderResolver when
	// no name is given.
	DefaultHeaderName = "X-Tenant-ID"

	// DefaultRouteParam is the chi URL parameter consulted by
	// NewRouteResolver when no name is given.
	DefaultRouteParam = "tenant"
)

// identifierPattern accepts alphanumeric identifiers with inner hyphens,
// the same shape a DNS label allows.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

func validIdentifier(id string) bool {
	return id != "" && len(id) <= MaxIdentifierLength && identifierPattern.MatchString(id)
}

// Resolver extracts a tenant identifier from an HTTP request.
// An empty string means the request carries no identifier; an error means
// extraction failed. Any function with this signature can act as a
// resolution strategy, so ad-hoc strategies are plain closures.
type Resolver func(r *http.Request) (string, error)

// NewStaticResolver returns a resolver that yields the same identifier for
// every request. Useful for single-tenant-per-deployment setups and tests.
// Panics when the identifier is blank so a misconfigured deployment fails
// at startup instead of serving the wrong tenant.
func NewStaticResolver(identifier string) Resolver {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		panic("tenantkit: static resolver requires a non-blank identifier")
	}
	return func(*http.Request) (string, error) {
		return identifier, nil
	}
}

// NewHeaderResolver extracts the tenant identifier from an HTTP header.
// Defaults to DefaultHeaderName if headerName is empty.
func NewHeaderResolver(headerName string) Resolver {
	if headerName == "" {
		headerName = DefaultHeaderName
	}
	return func(req *http.Request) (string, error) {
		value := strings.TrimSpace(req.Header.Get(headerName))
		if value == "" {
			return "", nil
		}
		if !validIdentifier(value) {
			return "", fmt.Errorf("%w: header %s value %q", ErrInvalidIdentifier, headerName, value)
		}
		return value, nil
	}
}

// NewSubdomainResolver extracts the tenant identifier from the request
// host, optionally stripping a fixed suffix such as ".saas.example.com".
// Returns an empty identifier for bare domains (no subdomain) and skips a
// leading "www".
func NewSubdomainResolver(suffix string) Resolver {
	return func(req *http.Request) (string, error) {
		host := req.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}

		// A subdomain requires at least subdomain.domain.tld.
		if strings.Count(host, ".") < 2 {
			return "", nil
		}

		trimmed := host
		if suffix != "" && strings.HasSuffix(trimmed, suffix) && len(trimmed) > len(suffix) {
			trimmed = trimmed[:len(trimmed)-len(suffix)]
		}

		labels := strings.Split(trimmed, ".")
		sub := labels[0]
		if sub == "www" {
			if len(labels) < 2 {
				return "", nil
			}
			sub = labels[1]
		}
		if sub == "" {
			return "", nil
		}
		if !validIdentifier(sub) {
			return "", fmt.Errorf("%w: subdomain %q", ErrInvalidIdentifier, sub)
		}
		return sub, nil
	}
}

// NewPathResolver extracts the tenant identifier from a URL path segment at
// a 1-based position. Position 2 extracts "acme" from /tenants/acme/settings.
func NewPathResolver(position int) Resolver {
	return func(req *http.Request) (string, error) {
		if position < 1 {
			return "", fmt.Errorf("invalid path position: %d", position)
		}

		segments := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
		if position > len(segments) {
			return "", nil
		}

		value := strings.TrimSpace(segments[position-1])
		if value == "" {
			return "", nil
		}
		if !validIdentifier(value) {
			return "", fmt.Errorf("%w: path segment %q", ErrInvalidIdentifier, value)
		}
		return value, nil
	}
}

// NewRouteResolver extracts the tenant identifier from a chi URL parameter,
// for routers that mount tenant-scoped subtrees like /{tenant}/dashboard.
// Defaults to DefaultRouteParam if param is empty.
func NewRouteResolver(param string) Resolver {
	if param == "" {
		param = DefaultRouteParam
	}
	return func(req *http.Request) (string, error) {
		value := strings.TrimSpace(chi.URLParam(req, param))
		if value == "" {
			return "", nil
		}
		if !validIdentifier(value) {
			return "", fmt.Errorf("%w: route param %s value %q", ErrInvalidIdentifier, param, value)
		}
		return value, nil
	}
}

// NewCompositeResolver tries resolvers in order and returns the first
// non-empty identifier. Errors from earlier resolvers are ignored when a
// later one succeeds, and joined otherwise.
func NewCompositeResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		var errs []error

		for _, resolve := range resolvers {
			id, err := resolve(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if id != "" {
				return id, nil
			}
		}

		if len(errs) > 0 {
			return "", fmt.Errorf("composite resolver: %w", errors.Join(errs...))
		}
		return "", nil
	}
}

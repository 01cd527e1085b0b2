package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/tenantkit"
)

// IdentifierToken is the endpoint placeholder replaced with the
// path-escaped tenant identifier. Endpoints without the token get the
// identifier appended as a trailing path segment.
const IdentifierToken = "{identifier}"

// maxBodySize caps how much of a response body is read, protecting
// against misbehaving tenant services.
const maxBodySize = 1 << 20 // 1 MB

// Store is a read-only tenant provider backed by a remote HTTP service.
// Lookups are GET requests returning a JSON-encoded tenant; a 404
// translates to tenantkit.ErrTenantNotFound.
type Store struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client.
// This allows for custom transports, proxies, or testing.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds each lookup with a per-request deadline, on top of
// whatever timeout the HTTP client itself enforces.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New creates a store that looks tenants up against the endpoint, e.g.
//
//	httpstore.New("https://control-plane.internal/tenants/{identifier}")
//
// The endpoint must be an absolute URL. Connection pooling is configured
// for steady request flow while preventing connection leaks.
func New(endpoint string, opts ...Option) (*Store, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: empty endpoint", ErrInvalidEndpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	s := &Store{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// GetByIdentifier fetches the tenant from the remote service.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*tenantkit.Tenant, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, tenantkit.ErrInvalidIdentifier
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.lookupURL(identifier), nil)
	if err != nil {
		return nil, fmt.Errorf("build tenant request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tenant %q: %w", identifier, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, tenantkit.ErrTenantNotFound
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var tenant tenantkit.Tenant
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&tenant); err != nil {
		return nil, fmt.Errorf("decode tenant %q: %w", identifier, err)
	}
	if tenant.Identifier == "" {
		tenant.Identifier = identifier
	}
	return &tenant, nil
}

func (s *Store) lookupURL(identifier string) string {
	escaped := url.PathEscape(identifier)
	if strings.Contains(s.endpoint, IdentifierToken) {
		return strings.ReplaceAll(s.endpoint, IdentifierToken, escaped)
	}
	return strings.TrimSuffix(s.endpoint, "/") + "/" + escaped
}

package httpstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit"
	"github.com/dmitrymomot/tenantkit/httpstore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts absolute url", func(t *testing.T) {
		t.Parallel()

		store, err := httpstore.New("https://api.example.com/tenants/{identifier}")
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("rejects empty endpoint", func(t *testing.T) {
		t.Parallel()

		store, err := httpstore.New("   ")
		assert.ErrorIs(t, err, httpstore.ErrInvalidEndpoint)
		assert.Nil(t, store)
	})

	t.Run("rejects relative endpoint", func(t *testing.T) {
		t.Parallel()

		store, err := httpstore.New("/tenants/{identifier}")
		assert.ErrorIs(t, err, httpstore.ErrInvalidEndpoint)
		assert.Nil(t, store)
	})
}

func TestGetByIdentifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fetches tenant via token template", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tenants/acme", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			json.NewEncoder(w).Encode(tenantkit.Tenant{
				ID:         "tenant-1",
				Identifier: "acme",
				Name:       "Acme Corp",
			})
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/api/tenants/{identifier}")
		require.NoError(t, err)

		got, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "tenant-1", got.ID)
		assert.Equal(t, "Acme Corp", got.Name)
	})

	t.Run("appends identifier without token", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tenants/acme", r.URL.Path)
			json.NewEncoder(w).Encode(tenantkit.Tenant{ID: "tenant-1", Identifier: "acme"})
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/tenants/")
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
	})

	t.Run("path-escapes the identifier", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tenants/acme%2Fcorp", r.URL.EscapedPath())
			json.NewEncoder(w).Encode(tenantkit.Tenant{ID: "tenant-1", Identifier: "acme/corp"})
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/tenants/{identifier}")
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "acme/corp")
		require.NoError(t, err)
	})

	t.Run("maps 404 to not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/tenants/{identifier}")
		require.NoError(t, err)

		got, err := store.GetByIdentifier(ctx, "ghost")
		assert.ErrorIs(t, err, tenantkit.ErrTenantNotFound)
		assert.Nil(t, got)
	})

	t.Run("reports unexpected status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/tenants/{identifier}")
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "acme")
		assert.ErrorIs(t, err, httpstore.ErrUnexpectedStatus)
	})

	t.Run("reports malformed body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/tenants/{identifier}")
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "acme")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decode tenant")
	})

	t.Run("fills identifier when response omits it", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"id": "tenant-1", "name": "Acme Corp"})
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL + "/tenants/{identifier}")
		require.NoError(t, err)

		got, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", got.Identifier)
	})

	t.Run("rejects blank identifier", func(t *testing.T) {
		t.Parallel()

		store, err := httpstore.New("https://api.example.com/tenants/{identifier}")
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "  ")
		assert.ErrorIs(t, err, tenantkit.ErrInvalidIdentifier)
	})

	t.Run("respects configured timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			json.NewEncoder(w).Encode(tenantkit.Tenant{ID: "tenant-1", Identifier: "acme"})
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL+"/tenants/{identifier}", httpstore.WithTimeout(20*time.Millisecond))
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "acme")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("uses custom http client", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(tenantkit.Tenant{ID: "tenant-1", Identifier: "acme"})
		}))
		defer srv.Close()

		store, err := httpstore.New(srv.URL+"/tenants/{identifier}", httpstore.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		_, err = store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("builds store from config", func(t *testing.T) {
		t.Parallel()

		store, err := httpstore.NewFromConfig(httpstore.Config{
			Endpoint: "https://api.example.com/tenants/{identifier}",
			Timeout:  5 * time.Second,
		})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("propagates endpoint validation", func(t *testing.T) {
		t.Parallel()

		_, err := httpstore.NewFromConfig(httpstore.Config{Endpoint: ""})
		assert.ErrorIs(t, err, httpstore.ErrInvalidEndpoint)
	})
}

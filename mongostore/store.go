package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/text/cases"

	"github.com/dmitrymomot/tenantkit"
)

// tenantDoc is the collection document. The tenant id doubles as _id, so
// id uniqueness comes from the primary key; identifier uniqueness comes
// from the unique index on identifier_key created by EnsureIndexes.
type tenantDoc struct {
	ID               string            `bson:"_id"`
	Identifier       string            `bson:"identifier"`
	IdentifierKey    string            `bson:"identifier_key"`
	Name             string            `bson:"name,omitempty"`
	ConnectionString string            `bson:"connection_string,omitempty"`
	Items            map[string]string `bson:"items,omitempty"`
}

func (d tenantDoc) tenant() *tenantkit.Tenant {
	return &tenantkit.Tenant{
		ID:               d.ID,
		Identifier:       d.Identifier,
		Name:             d.Name,
		ConnectionString: d.ConnectionString,
		Items:            d.Items,
	}
}

// Store is a MongoDB-backed tenant registry. Uniqueness is enforced by
// the collection's indexes, so racing TryAdd calls settle inside the
// database: one insert succeeds and the rest observe a duplicate-key
// error reported as a plain false.
type Store struct {
	coll          *mongo.Collection
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

// New creates a store over the tenant collection.
// Run EnsureIndexes once before first use.
func New(coll *mongo.Collection, opts ...Option) *Store {
	if coll == nil {
		panic("mongostore: store requires a collection")
	}

	s := &Store{coll: coll}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the unique index backing identifier uniqueness.
// Safe to run on every startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "identifier_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("identifier_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("create tenant indexes: %w", err)
	}
	return nil
}

func (s *Store) key(identifier string) string {
	if s.caseSensitive {
		return identifier
	}
	return cases.Fold().String(identifier)
}

// TryAdd inserts the tenant unless its identifier key or id is already
// taken. The conflict is settled by the database, so concurrent calls
// from any number of processes produce exactly one document.
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

	_, err := s.coll.InsertOne(ctx, tenantDoc{
		ID:               tenant.ID,
		Identifier:       tenant.Identifier,
		IdentifierKey:    s.key(tenant.Identifier),
		Name:             tenant.Name,
		ConnectionString: tenant.ConnectionString,
		Items:            tenant.Items,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert tenant %q: %w", tenant.Identifier, err)
	}
	return true, nil
}

// GetByIdentifier retrieves a tenant by identifier under the comparison
// policy. Returns tenantkit.ErrTenantNotFound when absent.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*tenantkit.Tenant, error) {
	var doc tenantDoc
	err := s.coll.FindOne(ctx, bson.M{"identifier_key": s.key(identifier)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenantkit.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant %q: %w", identifier, err)
	}
	return doc.tenant(), nil
}

// Remove deletes the tenant with the given identifier and reports whether
// a document was removed.
func (s *Store) Remove(ctx context.Context, identifier string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"identifier_key": s.key(identifier)})
	if err != nil {
		return false, fmt.Errorf("delete tenant %q: %w", identifier, err)
	}
	return res.DeletedCount > 0, nil
}

// All returns every registered tenant sorted by identifier.
func (s *Store) All(ctx context.Context) ([]*tenantkit.Tenant, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "identifier", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	var docs []tenantDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	tenants := make([]*tenantkit.Tenant, 0, len(docs))
	for _, doc := range docs {
		tenants = append(tenants, doc.tenant())
	}
	return tenants, nil
}

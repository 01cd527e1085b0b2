// Package pgstore implements a PostgreSQL-backed tenant registry on
// pgx/v5 connection pools.
//
// Registration relies on the database for race settlement: TryAdd is an
// INSERT ... ON CONFLICT DO NOTHING against a unique key, so concurrent
// registrations across any number of application instances produce
// exactly one row. The identifier comparison policy (case-insensitive by
// default) is applied by folding identifiers into the indexed
// identifier_key column.
//
// Typical startup:
//
//	pool, err := pgstore.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pgstore.Migrate(ctx, pool, logger); err != nil {
//		return err
//	}
//	store := pgstore.New(pool)
//
// Migrations are embedded in the package and versioned separately from
// the application's own schema history.
package pgstore

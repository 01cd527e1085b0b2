// Package mongostore implements a MongoDB-backed tenant registry.
//
// The tenant id is the document _id and the folded identifier lives in a
// uniquely indexed identifier_key field, so registration races are
// settled by the database: one InsertOne wins, the rest report a
// duplicate through TryAdd's boolean.
//
//	coll, err := mongostore.ConnectCollection(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := mongostore.New(coll)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		return err
//	}
//
// Configuration is environment-driven (TENANT_MONGODB_* variables), and
// the retry logic in Connect tolerates transient failures during startup.
package mongostore

// Package redisstore implements a Redis-backed tenant registry.
//
// Tenants are stored as JSON in a hash keyed by the folded identifier,
// with a companion hash reserving tenant ids. Registration runs as a
// Redis script so the uniqueness checks and writes are atomic: racing
// TryAdd calls across processes settle to exactly one winner.
//
//	client, err := redisstore.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := redisstore.New(client)
//
// The store accepts any redis.UniversalClient, so it works against a
// single node, sentinel, or cluster.
package redisstore

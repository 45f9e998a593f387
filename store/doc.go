// Package store provides a single-table DynamoDB record store keyed by user.
//
// Satchel stores one row per "main key" (typically a user identifier). Each
// row carries a data map from string data keys to arbitrary JSON-serializable
// values. The package is a thin accessor: durability, replication and
// throughput all belong to DynamoDB.
//
// # Getting Started
//
// Create a DynamoDB client with [NewClient] (or bring your own), then a
// [Store], then bind a main key:
//
//	client, err := store.NewClient(ctx, store.AWSConfig{Region: "eu-west-1"})
//	if err != nil {
//	    return err
//	}
//
//	s := store.New(client, store.DefaultConfig())
//	rec := s.MainKey("u1")
//
//	if err := rec.Save(ctx, "color", "blue"); err != nil {
//	    return err
//	}
//	v, err := rec.Load(ctx, "color") // "blue"
//
// # Table Provisioning
//
// The table is created lazily: a Save or Load that observes a missing table
// creates it with a single string hash key ("main_key") and the configured
// provisioned throughput, waits for it to become ACTIVE, and then performs
// the requested operation. [Store.EnsureTable] does the same step eagerly.
//
// # Consistency
//
// Reads issued by Save, Load and DeleteValue are strongly consistent.
// Writes are conditional on a version attribute, so concurrent
// read-modify-write cycles on the same main key never lose updates; a cycle
// that keeps losing the race fails with [ErrRecordModified] after
// Config.MaxSaveAttempts tries.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrMainKeyNotFound] - no record exists for the bound main key
//   - [ErrDataKeyNotFound] - the record exists but lacks the data key
//   - [ErrRecordModified] - conditional write kept failing under contention
//
// All other DynamoDB failures are wrapped with context and propagated.
package store

// Package backend provides access to the key/value store that backs the
// reservations cache.
//
// A Store performs single get/set calls. Instrumented decorates any Store
// and records one backend_request_duration sample per call:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := backend.NewInstrumented(backend.NewRedisStore(rdb), registry, logger)
//
//	value, err := store.Get(ctx, "userReservations:ab")
//	if err != nil {
//		// backend failure, already recorded as status="error"
//	}
//	if value == nil {
//		// absent key
//	}
//
// No call is retried.
package backend

import (
	"context"
)

// Operation names used as the operation label.
const (
	OpGet = "get"
	OpSet = "set"
)

// Store is a key/value store reached over the network.
type Store interface {
	// Get returns the value stored under key, or nil if the key is absent.
	// Absence is not an error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key without expiry.
	Set(ctx context.Context, key string, value []byte) error
}

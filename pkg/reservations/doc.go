// Package reservations implements the cache-aside read path behind
// GET /reservations/{user_id}.
//
// For each request the Service:
//
//   - rejects user ids longer than MaxUserIDLength with 400, touching nothing
//   - draws a number in [1,100] and answers 500 when it exceeds FailureThreshold
//   - reads userReservations:<user_id> from the backend store
//   - on a miss, fetches the reservations from the (simulated) upstream and
//     writes them back under the same key
//   - answers 200
//
// The success body is the decimal status code, not the reservation payload.
// Backend failures are not handled here; they are returned to the HTTP
// layer, which records them as 500.
//
// # Basic Usage
//
//	store := backend.NewInstrumented(backend.NewRedisStore(rdb), registry, logger)
//	svc := reservations.NewService(store, logger)
//
//	status, err := svc.Handle(ctx, "ab")
//	if err != nil {
//		// backend failure or corrupt cache value
//	}
//
// # Cache Format
//
// Values are JSON arrays of records:
//
//	[{"id": 412, "user_id": "ab"}]
//
// Entries carry no TTL and are never deleted by this package.
package reservations

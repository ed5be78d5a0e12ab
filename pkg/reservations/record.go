package reservations

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecord indicates a cached value that does not decode as a
// list of reservation records.
var ErrInvalidRecord = errors.New("invalid reservation record")

// KeyPrefix is prepended to the user id to build the cache key.
const KeyPrefix = "userReservations:"

// Record is a single reservation.
type Record struct {
	ID     int    `json:"id"`
	UserID string `json:"user_id"`
}

// Key returns the cache key for a user id.
//
// Example:
//
//	userReservations:ab
func Key(userID string) string {
	return KeyPrefix + userID
}

// Encode serializes records into the cache value format.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal reservations: %w", err)
	}
	return data, nil
}

// Decode parses a cache value.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return records, nil
}

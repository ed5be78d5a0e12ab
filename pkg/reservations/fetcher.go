package reservations

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Fetcher loads the reservations of a user from the system of record.
type Fetcher interface {
	Fetch(ctx context.Context, userID string) ([]Record, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, userID string) ([]Record, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, userID string) ([]Record, error) {
	return f(ctx, userID)
}

// Defaults for SimulatedFetcher.
const (
	DefaultFetchMinDelay = 10 * time.Millisecond
	DefaultFetchMaxDelay = 300 * time.Millisecond

	maxSimulatedID = 1000
)

// SimulatedFetcher stands in for an external reservations API. Each fetch
// sleeps for a random delay and returns one record with a random id.
type SimulatedFetcher struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewSimulatedFetcher creates a fetcher with delays drawn uniformly from
// [minDelay, maxDelay].
func NewSimulatedFetcher(minDelay, maxDelay time.Duration) *SimulatedFetcher {
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &SimulatedFetcher{MinDelay: minDelay, MaxDelay: maxDelay}
}

// Fetch implements Fetcher.
func (f *SimulatedFetcher) Fetch(ctx context.Context, userID string) ([]Record, error) {
	delay := f.MinDelay
	if span := f.MaxDelay - f.MinDelay; span > 0 {
		delay += rand.N(span + 1)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch reservations: %w", ctx.Err())
	case <-timer.C:
	}

	return []Record{{ID: rand.IntN(maxSimulatedID) + 1, UserID: userID}}, nil
}

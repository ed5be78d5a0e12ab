package reservations

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"unicode/utf8"

	"github.com/Sternrassler/reservations-latency-demo/pkg/backend"
	"github.com/rs/zerolog"
)

const (
	// MaxUserIDLength is the longest accepted user id, in characters.
	MaxUserIDLength = 5

	// FailureThreshold is the largest draw in [1,100] that does not inject
	// a failure, giving an ambient failure rate of 10%.
	FailureThreshold = 90
)

// Service performs the cache-aside lookup for one user per request.
type Service struct {
	store   backend.Store
	fetcher Fetcher
	draw    func() int
	logger  zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher replaces the simulated upstream fetch.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithFailureDraw replaces the random draw in [1,100] that decides whether a
// failure is injected.
func WithFailureDraw(draw func() int) Option {
	return func(s *Service) {
		s.draw = draw
	}
}

// NewService creates a Service over store. The store is expected to be
// instrumented by the caller.
func NewService(store backend.Store, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		fetcher: NewSimulatedFetcher(DefaultFetchMinDelay, DefaultFetchMaxDelay),
		draw:    func() int { return rand.IntN(100) + 1 },
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle serves one reservations request and returns the HTTP status to
// answer with. A non-nil error means the backend or the cached value failed
// and no status was decided.
func (s *Service) Handle(ctx context.Context, userID string) (int, error) {
	if utf8.RuneCountInString(userID) > MaxUserIDLength {
		s.logger.Debug().
			Str("user_id", userID).
			Int("max_length", MaxUserIDLength).
			Msg("Rejected user id")
		return http.StatusBadRequest, nil
	}

	if n := s.draw(); n > FailureThreshold {
		s.logger.Warn().
			Str("user_id", userID).
			Int("draw", n).
			Msg("Injected upstream failure")
		return http.StatusInternalServerError, nil
	}

	if _, err := s.Reservations(ctx, userID); err != nil {
		return 0, err
	}

	return http.StatusOK, nil
}

// Reservations returns the reservations of userID, reading through the
// cache. One backend get is always issued; a set follows only on a miss.
func (s *Service) Reservations(ctx context.Context, userID string) ([]Record, error) {
	key := Key(userID)

	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		records, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		s.logger.Debug().Str("key", key).Bool("cache_hit", true).Msg("Cache hit")
		return records, nil
	}

	s.logger.Debug().Str("key", key).Bool("cache_hit", false).Msg("Cache miss")

	records, err := s.fetcher.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	value, err := Encode(records)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, value); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("key", key).
		Int("records", len(records)).
		Msg("Cached reservations")

	return records, nil
}

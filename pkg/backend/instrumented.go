package backend

import (
	"context"
	"time"

	"github.com/Sternrassler/reservations-latency-demo/pkg/instrument"
	"github.com/Sternrassler/reservations-latency-demo/pkg/metrics"
	"github.com/rs/zerolog"
)

// Instrumented wraps a Store and records the latency and outcome of every
// call. Errors from the inner store are returned unchanged.
type Instrumented struct {
	inner   Store
	metrics *metrics.Registry
	logger  zerolog.Logger
}

// NewInstrumented wraps inner with metric instrumentation.
func NewInstrumented(inner Store, m *metrics.Registry, logger zerolog.Logger) *Instrumented {
	return &Instrumented{
		inner:   inner,
		metrics: m,
		logger:  logger,
	}
}

// Get implements Store.
func (s *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := instrument.Call(s.recorder(OpGet, key), func() error {
		var err error
		value, err = s.inner.Get(ctx, key)
		return err
	})
	return value, err
}

// Set implements Store.
func (s *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	return instrument.Call(s.recorder(OpSet, key), func() error {
		return s.inner.Set(ctx, key, value)
	})
}

func (s *Instrumented) recorder(op, key string) instrument.Recorder {
	return func(elapsed time.Duration, err error) {
		status := metrics.BackendStatus(err)
		s.metrics.ObserveBackend(op, status, elapsed)

		if err != nil {
			s.logger.Error().
				Err(err).
				Str("operation", op).
				Str("key", key).
				Dur("duration", elapsed).
				Msg("Backend call failed")
			return
		}
		s.logger.Debug().
			Str("operation", op).
			Str("key", key).
			Dur("duration", elapsed).
			Msg("Backend call")
	}
}

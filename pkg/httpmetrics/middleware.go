// Package httpmetrics records one http_request_duration sample per request,
// labelled with the method, the normalized path and the final status.
package httpmetrics

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Sternrassler/reservations-latency-demo/pkg/instrument"
	"github.com/Sternrassler/reservations-latency-demo/pkg/metrics"
	"github.com/Sternrassler/reservations-latency-demo/pkg/pathnorm"
	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"
)

// HandlerFunc is an HTTP handler that reports unhandled failures as errors
// instead of writing a response for them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Middleware instruments handlers with latency histograms.
type Middleware struct {
	metrics    *metrics.Registry
	normalizer *pathnorm.Normalizer
	logger     zerolog.Logger
}

// New creates a Middleware recording into m with path labels from n.
func New(m *metrics.Registry, n *pathnorm.Normalizer, logger zerolog.Logger) *Middleware {
	return &Middleware{
		metrics:    m,
		normalizer: n,
		logger:     logger,
	}
}

// Wrap instruments h. A returned error or a panic is recorded with status
// 500. For an error the wrapper answers 500 itself if h wrote nothing; a
// panic is re-raised to net/http after the sample is recorded.
func (m *Middleware) Wrap(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{status: http.StatusOK}
		ww := rec.wrap(w)
		path := m.normalizer.Normalize(r.URL.Path)

		err := instrument.Call(func(elapsed time.Duration, err error) {
			status := rec.status
			if err != nil {
				status = http.StatusInternalServerError
			}
			m.metrics.ObserveHTTP(r.Method, path, status, elapsed)
			m.logRequest(r.Method, path, status, elapsed, err)
		}, func() error {
			return h(ww, r)
		})

		if err != nil && !rec.wroteHeader {
			http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}

// WrapHandler instruments a plain http.Handler.
func (m *Middleware) WrapHandler(h http.Handler) http.Handler {
	return m.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	})
}

func (m *Middleware) logRequest(method, path string, status int, elapsed time.Duration, err error) {
	if err != nil {
		var pe *instrument.PanicError
		event := m.logger.Error().Err(err)
		if errors.As(err, &pe) {
			event = event.Bool("panic", true)
		}
		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("Request failed")
		return
	}

	m.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", elapsed).
		Msg("Request served")
}

// statusRecorder captures the first status code written by a handler.
type statusRecorder struct {
	status      int
	wroteHeader bool
}

// wrap returns w with hooks that record the status. httpsnoop keeps the
// optional interfaces (Flusher, Hijacker, ReaderFrom) of w intact.
func (s *statusRecorder) wrap(w http.ResponseWriter) http.ResponseWriter {
	return httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				if !s.wroteHeader {
					s.status = code
					s.wroteHeader = true
				}
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				s.wroteHeader = true
				return next(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				s.wroteHeader = true
				return next(src)
			}
		},
	})
}

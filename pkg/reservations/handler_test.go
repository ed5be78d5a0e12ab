package reservations

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sternrassler/reservations-latency-demo/internal/testutil"
	"github.com/Sternrassler/reservations-latency-demo/pkg/backend"
	"github.com/Sternrassler/reservations-latency-demo/pkg/httpmetrics"
	"github.com/Sternrassler/reservations-latency-demo/pkg/metrics"
	"github.com/Sternrassler/reservations-latency-demo/pkg/pathnorm"
	"github.com/rs/zerolog"
)

func newTestMux(t *testing.T, store *testutil.MockStore, opts ...Option) (*http.ServeMux, *metrics.Registry) {
	t.Helper()

	reg := metrics.MustNew(nil)
	svc := NewService(backend.NewInstrumented(store, reg, zerolog.Nop()), zerolog.Nop(),
		append([]Option{WithFetcher(&fixedFetcher{id: 1}), WithFailureDraw(noFailure)}, opts...)...)
	mw := httpmetrics.New(reg, pathnorm.Default(), zerolog.Nop())

	mux := http.NewServeMux()
	mux.Handle("GET /reservations/{user_id}", mw.Wrap(Handler(svc)))
	return mux, reg
}

func TestHandler_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		draw        int
		getErr      error
		wantStatus  int
		wantBody    string
		wantLabel   string
		wantBackend uint64
	}{
		{"miss_then_store", "/reservations/ab", 1, nil, 200, "200", "200", 2},
		{"too_long", "/reservations/toolong1", 1, nil, 400, "400", "400", 0},
		{"injected_failure", "/reservations/ab", 95, nil, 500, "500", "500", 0},
		{"backend_error", "/reservations/ab", 1, errors.New("dial tcp: connection refused"), 500, "Internal Server Error\n", "500", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStore()
			store.GetErr = tt.getErr
			mux, reg := newTestMux(t, store, WithFailureDraw(func() int { return tt.draw }))

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			resp := w.Result()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}

			httpSamples := testutil.HistogramCount(t, reg.Gatherer(), metrics.HTTPRequestDurationName,
				map[string]string{"method": "GET", "path": "/reservations/:user_id", "status": tt.wantLabel})
			if httpSamples != 1 {
				t.Errorf("http samples for status %s = %d, want 1", tt.wantLabel, httpSamples)
			}
			if total := testutil.HistogramTotal(t, reg.Gatherer(), metrics.HTTPRequestDurationName); total != 1 {
				t.Errorf("total http samples = %d, want 1", total)
			}
			if got := testutil.HistogramTotal(t, reg.Gatherer(), metrics.BackendRequestDurationName); got != tt.wantBackend {
				t.Errorf("backend samples = %d, want %d", got, tt.wantBackend)
			}
		})
	}
}

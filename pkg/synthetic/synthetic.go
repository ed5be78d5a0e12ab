// Package synthetic serves an endpoint with random latency and status codes,
// used to populate latency dashboards without a backend.
package synthetic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/Sternrassler/reservations-latency-demo/pkg/httpmetrics"
)

// Weighted draws: most requests are fast and successful.
var (
	latencyFactors = []int{1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 3}
	statusCodes    = []int{200, 200, 200, 200, 200, 400, 401, 500}
)

// Generator draws a latency and status per request.
type Generator struct {
	intN  func(n int) int
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGenerator creates a Generator using math/rand/v2 and real sleeps.
func NewGenerator() *Generator {
	return &Generator{
		intN:  rand.IntN,
		sleep: sleepContext,
	}
}

// Next returns the latency and status for one request. Latency is a factor
// in {1,2,3} times a uniform 1-100ms.
func (g *Generator) Next() (time.Duration, int) {
	factor := latencyFactors[g.intN(len(latencyFactors))]
	millis := g.intN(100) + 1
	status := statusCodes[g.intN(len(statusCodes))]

	return time.Duration(factor*millis) * time.Millisecond, status
}

// Handler waits for the drawn latency, then answers with the drawn status.
// The body is the status code.
func (g *Generator) Handler() httpmetrics.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		delay, status := g.Next()
		if err := g.sleep(r.Context(), delay); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, status)
		return nil
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

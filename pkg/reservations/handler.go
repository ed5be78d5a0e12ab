package reservations

import (
	"fmt"
	"net/http"

	"github.com/Sternrassler/reservations-latency-demo/pkg/httpmetrics"
)

// PathParam is the route wildcard holding the user id.
const PathParam = "user_id"

// Handler serves GET /reservations/{user_id}. The body is the status code.
// Errors from the Service are returned to the instrumentation wrapper.
func Handler(svc *Service) httpmetrics.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		status, err := svc.Handle(r.Context(), r.PathValue(PathParam))
		if err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, status)
		return nil
	}
}

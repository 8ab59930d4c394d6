package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/todo/internal/metrics"
)

// unmatchedRoute labels requests no route pattern matched, keeping the
// label set bounded.
const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route pattern.
// It must wrap the ServeMux directly: the mux records the matched pattern
// on the request it receives, and any middleware in between that copies the
// request hides it.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

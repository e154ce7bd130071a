package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "request_count",
	Help: "Number of HTTP requests",
})

// CountRequests increments the request counter once per handled request.
// Best-effort telemetry: the in-process increment cannot fail the response.
func CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Inc()
		next.ServeHTTP(w, r)
	})
}

// NoCache ensures responses aren't cached.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Expires", "0")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

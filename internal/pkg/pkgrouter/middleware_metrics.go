package pkgrouter

import (
	"net/http"
	"time"
)

// Observer receives one observation per finished request.
type Observer interface {
	ObserveRequest(route, method string, status int, seconds float64)
}

// Metrics reports every request to obs.
func Metrics(obs Observer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recorderFor(w)
			next.ServeHTTP(rec, r)
			obs.ObserveRequest(routeOrPath(r), r.Method, rec.code(), time.Since(start).Seconds())
		})
	}
}

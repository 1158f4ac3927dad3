package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// requestCounter counts HTTP requests by method, chi route pattern, and status.
func requestCounter(reg prometheus.Registerer) (func(http.Handler) http.Handler, error) {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillpack_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	if err := reg.Register(counter); err != nil {
		return nil, err
	}

	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			counter.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		})
	}
	return mw, nil
}

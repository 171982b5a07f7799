// Package api assembles the loopback HTTP surface the UI shell talks
// to. Handlers live in the handlers subpackage; this file is routing
// and middleware.
package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hereafter/pkg/api/handlers"
	"hereafter/pkg/logger"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hereafter_http_requests_total",
	Help: "HTTP requests served, by method and status.",
}, []string{"method", "status"})

// Options tunes the router's middleware.
type Options struct {
	// RPS/Burst configure the per-client token bucket; zero values
	// fall back to defaults inside the limiter.
	RPS   float64
	Burst int
}

// Handler builds the full router: health, metrics and the /v1 API.
func Handler(env handlers.Env, opts Options) http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.Use(countRequests)
	r.Use(newLimiter(opts.RPS, opts.Burst).middleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterMessages(v1, env)
	handlers.RegisterThreads(v1, env)
	handlers.RegisterProfile(v1, env)
	return r
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Log.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("remote", r.RemoteAddr))
	})
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

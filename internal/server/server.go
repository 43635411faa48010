// Package server exposes the splitting engine over HTTP so bills can be
// split without touching the filesystem.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"warikan/internal/service"
)

var (
	splitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warikan_splits_total",
		Help: "Split requests handled, by outcome.",
	}, []string{"status"})

	splitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warikan_split_duration_seconds",
		Help:    "Time spent computing one split request.",
		Buckets: prometheus.DefBuckets,
	})
)

// maxDocumentSize bounds a request body; bill documents are tiny.
const maxDocumentSize = 1 << 20

// Handler builds the full HTTP handler: the split endpoint, health, and
// Prometheus metrics, wrapped in request logging.
func Handler(proc *service.Processor) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/split", handleSplit(proc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return loggingMiddleware(mux)
}

// New builds the HTTP server, wrapped with h2c so HTTP/2 works without TLS.
func New(addr string, proc *service.Processor) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(Handler(proc), &http2.Server{}),
	}
}

// handleSplit accepts one raw bill document and responds with the computed
// split. Malformed input is the caller's problem: 400 with a description.
func handleSplit(proc *service.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		doc, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			splitsTotal.WithLabelValues("error").Inc()
			return
		}

		out, err := proc.ProcessBytes(doc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			splitsTotal.WithLabelValues("error").Inc()
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			slog.Error("encode response", "error", err)
		}
		splitsTotal.WithLabelValues("ok").Inc()
		splitDuration.Observe(time.Since(start).Seconds())
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// loggingMiddleware logs every request with its duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

package observe

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solar-resource-api/pkg/logger"
)

// MetricsServer exposes Prometheus metrics and a liveness probe on a side
// port, away from the public API.
type MetricsServer struct {
	httpServer *http.Server
	l          *logger.Logger
}

// NewMetricsServer creates an HTTP server with /metrics and /healthz routes.
func NewMetricsServer(addr string, l *logger.Logger) *MetricsServer {
	mux := http.NewServeMux()

	s := &MetricsServer{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		l: l,
	}

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *MetricsServer) Start() error {
	s.l.Info("metrics server starting", map[string]any{"addr": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the given context deadline.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

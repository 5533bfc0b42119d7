// Package api provides the optional HTTP observability endpoint for
// netsweep: Prometheus metrics exposition and a health check, served for
// the duration of a sweep run.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmartell/netsweep/internal/logging"
	"github.com/kmartell/netsweep/internal/metrics"
)

// Server timeout constants.
const (
	serverShutdownTimeout = 5 * time.Second
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
)

// Server serves /metrics and /healthz on a configured address.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *logging.Logger
}

// New creates a metrics server bound to addr.
func New(addr string, m *metrics.Metrics) *Server {
	logger := logging.Default().WithComponent("api")
	router := mux.NewRouter()

	server := &Server{
		router: router,
		logger: logger,
	}

	router.Handle("/metrics", promhttp.HandlerFor(
		m.GetRegistry(),
		promhttp.HandlerOpts{},
	)).Methods(http.MethodGet)
	router.HandleFunc("/healthz", server.handleHealth).Methods(http.MethodGet)

	server.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handlers.CombinedLoggingHandler(logWriter{logger}, router),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return server
}

// Start serves in a background goroutine until Shutdown is called.
func (s *Server) Start() {
	s.logger.Info("Metrics endpoint listening", "addr", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Metrics endpoint failed", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// logWriter routes gorilla access logs into the structured logger.
type logWriter struct {
	logger *logging.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Debug("HTTP request", "access_log", string(p))
	return len(p), nil
}

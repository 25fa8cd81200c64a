package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/isdmx/saferun/config"
	"github.com/isdmx/saferun/metrics"
	"github.com/isdmx/saferun/sandbox"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	// maxRequestBytes bounds the request body well above the code length
	// limit; the precise limit is enforced by the supervisor.
	maxRequestBytes = 1 << 20
)

// Server serves the execution API over HTTP.
type Server struct {
	logger    *zap.Logger
	cfg       *config.Config
	runner    sandbox.Runner
	collector *metrics.Collector
	httpSrv   *http.Server
}

// runRequest is the body of POST /run.
type runRequest struct {
	Code *string `json:"code"`
}

// runResponse is the body of every /run reply. Output is set on success;
// Error (plus optional Stdout/Stderr) on failure.
type runResponse struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// New creates an HTTP server wired to the given runner.
func New(cfg *config.Config, logger *zap.Logger, runner sandbox.Runner, collector *metrics.Collector) *Server {
	s := &Server{
		logger:    logger,
		cfg:       cfg,
		runner:    runner,
		collector: collector,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(collector.Registry, promhttp.HandlerOpts{}))

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// handleRun executes one submission and maps its outcome to a status code:
// success 200, TooLong 400, Timeout 408, BackendUnavailable 500, every
// other failure 400.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil || req.Code == nil {
		s.writeJSON(w, r, http.StatusBadRequest, runResponse{Error: "code must be a string"})
		return
	}

	outcome := s.runner.Run(r.Context(), *req.Code)

	if outcome.OK() {
		s.writeJSON(w, r, http.StatusOK, runResponse{Output: outcome.Stdout})
		return
	}

	s.writeJSON(w, r, statusFor(outcome.Kind), runResponse{
		Error:  outcome.Message,
		Stdout: outcome.Stdout,
		Stderr: outcome.Stderr,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	if s.collector != nil {
		s.collector.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", zap.Error(err))
	}
}

// statusFor maps a failure kind onto its transport status code.
func statusFor(kind sandbox.FailureKind) int {
	switch kind {
	case sandbox.FailureTimeout:
		return http.StatusRequestTimeout
	case sandbox.FailureBackendUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Package api exposes the contagion engine over HTTP: cascade simulation,
// criticality ranking and synthetic network generation, plus health and
// Prometheus metrics endpoints.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cascadelab/contagion/pkg/contagion"
	"github.com/cascadelab/contagion/pkg/generator"
	"github.com/cascadelab/contagion/pkg/logging"
	"github.com/cascadelab/contagion/pkg/metrics"
)

// Server represents the HTTP API server
type Server struct {
	logger          logging.Logger
	metricsRegistry *metrics.Registry
	startTime       time.Time
	version         string
	port            int
}

// NewServer creates a new API server
func NewServer(logger logging.Logger, registry *metrics.Registry, port int) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &Server{
		logger:          logger.With(logging.Component("api")),
		metricsRegistry: registry,
		startTime:       time.Now(),
		version:         "1.0.0",
		port:            port,
	}
}

// Handler builds the full request handler, middleware included. It is
// split from Start so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	mux.HandleFunc("/cascade", s.handleCascade)
	mux.HandleFunc("/criticality", s.handleCriticality)
	mux.HandleFunc("/generate", s.handleGenerate)

	return s.loggingMiddleware(s.metricsMiddleware(mux))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", logging.String("addr", addr))

	s.StartMetricsUpdater()

	// Timeouts bound slow clients; cascade runs themselves are fast.
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleCascade(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).Post(func() {
		start := time.Now()

		var req CascadeRequest
		if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
			return
		}

		net, err := contagion.NewNetwork(req.Entities, req.Obligations)
		if err != nil {
			s.metricsRegistry.RecordNetworkBuilt("error", 0, 0)
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metricsRegistry.RecordNetworkBuilt("success", net.EntityCount(), net.ObligationCount())

		result, err := contagion.Cascade(net, req.InitialFailed, contagion.CascadeOptions{MaxSteps: req.MaxSteps})
		if err != nil {
			s.metricsRegistry.RecordCascade("error", 0, 0, 0)
			s.respondError(w, cascadeErrorStatus(err), err.Error())
			return
		}

		duration := time.Since(start)
		s.metricsRegistry.RecordCascade("success", duration, len(result.Steps), len(result.Failed))

		runID := uuid.NewString()
		s.logger.Info("cascade complete",
			logging.RunID(runID),
			logging.Entities(net.EntityCount()),
			logging.Steps(len(result.Steps)),
			logging.FailedEntities(len(result.Failed)),
			logging.Latency(duration),
		)

		s.respondJSON(w, http.StatusOK, CascadeResponse{
			RunID:  runID,
			Result: result,
			Time:   duration.String(),
		})
	}).NotAllowed()
}

func (s *Server) handleCriticality(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).Post(func() {
		start := time.Now()

		var req CriticalityRequest
		if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
			return
		}

		net, err := contagion.NewNetwork(req.Entities, req.Obligations)
		if err != nil {
			s.metricsRegistry.RecordNetworkBuilt("error", 0, 0)
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metricsRegistry.RecordNetworkBuilt("success", net.EntityCount(), net.ObligationCount())

		report, err := contagion.RankCriticality(net, contagion.CriticalityOptions{
			TopK:     req.TopK,
			Workers:  req.Workers,
			MaxSteps: req.MaxSteps,
		})
		if err != nil {
			s.metricsRegistry.RecordCriticality("error", 0)
			s.respondError(w, cascadeErrorStatus(err), err.Error())
			return
		}

		duration := time.Since(start)
		s.metricsRegistry.RecordCriticality("success", duration)

		runID := uuid.NewString()
		s.logger.Info("criticality ranking complete",
			logging.RunID(runID),
			logging.Entities(net.EntityCount()),
			logging.Int("runs", report.Runs),
			logging.Latency(duration),
		)

		s.respondJSON(w, http.StatusOK, CriticalityResponse{
			RunID:  runID,
			Report: report,
			Time:   duration.String(),
		})
	}).NotAllowed()
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).Post(func() {
		start := time.Now()

		var req GenerateRequest
		if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
			return
		}

		opts := generator.DefaultOptions()
		if req.Entities > 0 {
			opts.Entities = req.Entities
		}
		if req.CoreSize > 0 {
			opts.CoreSize = req.CoreSize
		}
		if req.CoreDensity > 0 {
			opts.CoreDensity = req.CoreDensity
		}
		if req.PeripheryLinks > 0 {
			opts.PeripheryLinks = req.PeripheryLinks
		}
		if req.Seed != 0 {
			opts.Seed = req.Seed
		}

		net, err := generator.Generate(opts)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metricsRegistry.RecordNetworkGenerated()

		entities := make([]contagion.Entity, 0, net.EntityCount())
		for _, id := range net.EntityIDs() {
			e, _ := net.Entity(id)
			entities = append(entities, e)
		}

		duration := time.Since(start)
		s.logger.Info("network generated",
			logging.Seed(opts.Seed),
			logging.Entities(net.EntityCount()),
			logging.Obligations(net.ObligationCount()),
		)

		s.respondJSON(w, http.StatusOK, GenerateResponse{
			Entities:    entities,
			Obligations: net.Obligations(),
			Seed:        opts.Seed,
			Time:        duration.String(),
		})
	}).NotAllowed()
}

// cascadeErrorStatus maps engine errors to HTTP status codes. Unknown
// ids and structural problems are the caller's fault; a non-converged
// run is a valid request the engine refused to answer.
func cascadeErrorStatus(err error) int {
	switch {
	case contagion.IsNonConvergence(err):
		return http.StatusUnprocessableEntity
	case contagion.IsUnknownEntity(err), contagion.IsStructural(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

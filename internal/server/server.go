package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tmyreport/internal/logger"
	"tmyreport/internal/observability"
	"tmyreport/internal/reports"
	"tmyreport/internal/storage"
)

// ErrGenerationInProgress is returned when a report is already being generated
var ErrGenerationInProgress = errors.New("report generation already in progress")

// Generator produces one report per call; reports.ReportGenerator satisfies it
type Generator interface {
	GenerateCompleteReport(ctx context.Context) (*reports.Result, error)
}

// Server represents the main application server
type Server struct {
	generator Generator
	storage   storage.StorageClient
	metrics   *observability.Metrics
	gatherer  prometheus.Gatherer
	clock     clockwork.Clock
	log       *logger.Logger

	generateMutex sync.Mutex
}

// Option configures a Server
type Option func(*Server)

// WithMetrics counts rejected generations in m and serves g on /metrics
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithClock sets the clock used for response timestamps
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// NewServer creates a new server instance
func NewServer(generator Generator, client storage.StorageClient, opts ...Option) *Server {
	s := &Server{
		generator: generator,
		storage:   client,
		gatherer:  prometheus.DefaultGatherer,
		clock:     clockwork.NewRealClock(),
		log:       logger.GetGlobalLogger().WithComponent("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs one report generation unless another one is running,
// in which case it returns ErrGenerationInProgress without waiting.
func (s *Server) Generate(ctx context.Context) (*reports.Result, error) {
	if !s.generateMutex.TryLock() {
		if s.metrics != nil {
			s.metrics.Generations.WithLabelValues("busy").Inc()
		}
		return nil, ErrGenerationInProgress
	}
	defer s.generateMutex.Unlock()

	return s.generator.GenerateCompleteReport(ctx)
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/generate", s.HandleGenerate)
	mux.HandleFunc("/reports", s.HandleListReports)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Catch-all
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

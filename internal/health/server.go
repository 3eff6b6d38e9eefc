// Package health serves the daemon's readiness, liveness and metrics endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/yourusername/race-scorer/internal/metrics"
)

const defaultPort = "8080"

// DatabasePinger checks that the observation store is reachable.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// JobRunner reports whether the daily scoring schedule is active.
type JobRunner interface {
	IsRunning() bool
}

// StoreBreaker exposes the circuit breaker guarding observation reads.
type StoreBreaker interface {
	State() gobreaker.State
}

// CacheStats exposes the statistic cache counters.
type CacheStats interface {
	Stats() (hits, misses uint64, ratio float64)
	ItemCount() int
}

// StatusResponse is the body of /health and /live.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// CacheReport summarises the statistic cache.
type CacheReport struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	Items    int     `json:"items"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks"`
	Cache    *CacheReport      `json:"statistic_cache,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config wires the server to the daemon's components. Nil components are
// left out of the readiness report.
type Config struct {
	ServiceName string
	Version     string
	Port        string
	MetricsPath string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Jobs        JobRunner
	Breaker     StoreBreaker
	Cache       CacheStats
}

// Server answers health checks for the scoring daemon.
type Server struct {
	cfg    Config
	server *http.Server

	mu    sync.RWMutex
	ready bool
}

// NewServer creates a health server. It reports not ready until SetReady.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Server{cfg: cfg}
}

// SetReady marks the daemon as accepting work or draining.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady reports the flag set by SetReady.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the routes served by the health server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleStatus)
	mux.HandleFunc("/live", s.handleStatus)
	mux.HandleFunc("/ready", s.handleReady)
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	return mux
}

// Start listens in the background until ctx is cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.cfg.Logger.WithFields(logrus.Fields{
			"port":    s.cfg.Port,
			"service": s.cfg.ServiceName,
		}).Info("Health server starting")

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.cfg.Logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	return nil
}

// Shutdown stops the listener, waiting up to five seconds for open requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.cfg.Logger.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, healthy := s.readiness(r.Context())

	response := ReadyResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Checks:  checks,
	}
	if s.cfg.Cache != nil {
		hits, misses, ratio := s.cfg.Cache.Stats()
		response.Cache = &CacheReport{
			Hits:     hits,
			Misses:   misses,
			HitRatio: ratio,
			Items:    s.cfg.Cache.ItemCount(),
		}
	}
	response.Duration = time.Since(start).String()

	code := http.StatusOK
	if !healthy {
		response.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

// readiness runs every configured check. An open observation breaker fails
// readiness; half-open does not.
func (s *Server) readiness(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	healthy := true

	if s.IsReady() {
		checks["service"] = "ok"
	} else {
		checks["service"] = "not_ready"
		healthy = false
	}

	if s.cfg.Jobs != nil {
		if s.cfg.Jobs.IsRunning() {
			checks["scheduler"] = "ok"
		} else {
			checks["scheduler"] = "stopped"
			healthy = false
		}
	}

	if s.cfg.Breaker != nil {
		state := s.cfg.Breaker.State()
		checks["observation_breaker"] = state.String()
		if state == gobreaker.StateOpen {
			healthy = false
		}
	}

	if s.cfg.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(pingCtx); err != nil {
			checks["database"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	return checks, healthy
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

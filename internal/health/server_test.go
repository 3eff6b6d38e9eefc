package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/race-scorer/internal/metrics"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeJobs struct{ running bool }

func (f fakeJobs) IsRunning() bool { return f.running }

type fakeBreaker struct{ state gobreaker.State }

func (f fakeBreaker) State() gobreaker.State { return f.state }

type fakeCache struct {
	hits, misses uint64
	items        int
}

func (f fakeCache) Stats() (uint64, uint64, float64) {
	total := f.hits + f.misses
	if total == 0 {
		return f.hits, f.misses, 0
	}
	return f.hits, f.misses, float64(f.hits) / float64(total)
}

func (f fakeCache) ItemCount() int { return f.items }

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func ready(t *testing.T, s *Server) (int, ReadyResponse) {
	t.Helper()
	rec := get(t, s, "/ready")
	var body ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestStatusEndpoints(t *testing.T) {
	s := NewServer(Config{ServiceName: "race-scorer", Version: "1.2.0"})

	for _, path := range []string{"/health", "/live"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, s, path)
			require.Equal(t, http.StatusOK, rec.Code)

			var body StatusResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "ok", body.Status)
			assert.Equal(t, "race-scorer", body.Service)
			assert.Equal(t, "1.2.0", body.Version)
		})
	}
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		ready     bool
		cfg       Config
		wantCode  int
		wantCheck map[string]string
	}{
		{
			name:      "not marked ready",
			ready:     false,
			wantCode:  http.StatusServiceUnavailable,
			wantCheck: map[string]string{"service": "not_ready"},
		},
		{
			name:      "ready without dependencies",
			ready:     true,
			wantCode:  http.StatusOK,
			wantCheck: map[string]string{"service": "ok"},
		},
		{
			name:      "database down",
			ready:     true,
			cfg:       Config{DB: fakePinger{err: errors.New("refused")}},
			wantCode:  http.StatusServiceUnavailable,
			wantCheck: map[string]string{"database": "error: refused"},
		},
		{
			name:      "scheduler stopped",
			ready:     true,
			cfg:       Config{DB: fakePinger{}, Jobs: fakeJobs{running: false}},
			wantCode:  http.StatusServiceUnavailable,
			wantCheck: map[string]string{"scheduler": "stopped", "database": "ok"},
		},
		{
			name:      "observation breaker open",
			ready:     true,
			cfg:       Config{DB: fakePinger{}, Jobs: fakeJobs{running: true}, Breaker: fakeBreaker{state: gobreaker.StateOpen}},
			wantCode:  http.StatusServiceUnavailable,
			wantCheck: map[string]string{"observation_breaker": "open"},
		},
		{
			name:      "observation breaker half open",
			ready:     true,
			cfg:       Config{Breaker: fakeBreaker{state: gobreaker.StateHalfOpen}},
			wantCode:  http.StatusOK,
			wantCheck: map[string]string{"observation_breaker": "half-open"},
		},
		{
			name:     "all healthy",
			ready:    true,
			cfg:      Config{DB: fakePinger{}, Jobs: fakeJobs{running: true}, Breaker: fakeBreaker{state: gobreaker.StateClosed}},
			wantCode: http.StatusOK,
			wantCheck: map[string]string{
				"service":             "ok",
				"scheduler":           "ok",
				"database":            "ok",
				"observation_breaker": "closed",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ServiceName = "race-scorer"
			s := NewServer(cfg)
			s.SetReady(tt.ready)

			code, body := ready(t, s)
			assert.Equal(t, tt.wantCode, code)
			for check, want := range tt.wantCheck {
				assert.Equal(t, want, body.Checks[check], check)
			}
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "ok", body.Status)
			} else {
				assert.Equal(t, "not_ready", body.Status)
			}
		})
	}
}

func TestReadyReportsStatisticCache(t *testing.T) {
	s := NewServer(Config{ServiceName: "race-scorer", Cache: fakeCache{hits: 30, misses: 10, items: 12}})
	s.SetReady(true)

	code, body := ready(t, s)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, body.Cache)
	assert.Equal(t, uint64(30), body.Cache.Hits)
	assert.Equal(t, uint64(10), body.Cache.Misses)
	assert.InDelta(t, 0.75, body.Cache.HitRatio, 1e-9)
	assert.Equal(t, 12, body.Cache.Items)
}

func TestReadyOmitsCacheWhenUnset(t *testing.T) {
	s := NewServer(Config{ServiceName: "race-scorer"})
	s.SetReady(true)

	_, body := ready(t, s)
	assert.Nil(t, body.Cache)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordRaceScored(0.1)
	s := NewServer(Config{ServiceName: "race-scorer", MetricsPath: "/metrics"})

	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "race_scorer_races_scored_total")
}

func TestShutdownWithoutStart(t *testing.T) {
	s := NewServer(Config{ServiceName: "race-scorer"})
	assert.NoError(t, s.Shutdown())
}

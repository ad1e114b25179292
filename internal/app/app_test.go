package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func TestNew_InMemoryWiring(t *testing.T) {
	cfg := config.Config{
		AppEnv:                  config.EnvDev,
		HTTPAddr:                ":0",
		CacheEnabled:            true,
		CacheTTL:                time.Minute,
		CORSAllowedOrigins:      []string{"*"},
		FixtureCachePolicy:      config.FixtureCachePolicyStatus,
		FixtureCacheTTL:         6 * time.Minute,
		FixtureDaysBefore:       1,
		FixtureDaysAfter:        2,
		LeaderboardFetchWorkers: 2,
		InternalJobToken:        "job-token",
	}

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { a.Close(context.Background()) })

	for _, path := range []string{"/healthz", "/v1/selections/lock-status", "/v1/leaderboards/league", "/v1/fixtures"} {
		rec := httptest.NewRecorder()
		a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d %s", path, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/leaderboard", nil)
	req.Header.Set("X-Internal-Job-Token", "job-token")
	a.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("run leaderboard on empty store: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestNew_RequiresHTTPAddr(t *testing.T) {
	if _, err := New(context.Background(), config.Config{}, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty HTTP addr")
	}
}

func TestFixtureCachePolicy(t *testing.T) {
	fixed := fixtureCachePolicy(config.Config{FixtureCachePolicy: config.FixtureCachePolicyFixed, FixtureCacheTTL: time.Minute})
	if p, ok := fixed.(usecase.FixedCachePolicy); !ok || p.TTL != time.Minute {
		t.Fatalf("unexpected fixed policy: %#v", fixed)
	}

	status := fixtureCachePolicy(config.Config{FixtureCachePolicy: config.FixtureCachePolicyStatus, FixtureCacheTTL: time.Hour})
	if p, ok := status.(usecase.StatusCachePolicy); !ok || p.Default != time.Hour {
		t.Fatalf("unexpected status policy: %#v", status)
	}
}

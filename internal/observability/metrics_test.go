package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func TestMetrics_ObserveLeaderboardRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveLeaderboardRun(usecase.RunResult{
		FailedFixtures: []int64{2},
		Windows: []usecase.WindowSummary{
			{Kind: leaderboard.KindLeague, Key: leaderboard.LeagueKey, Rows: 3},
			{Kind: leaderboard.KindDaily, Key: "2024-04-10", Rows: 2},
		},
	}, time.Second, nil)
	m.ObserveLeaderboardRun(usecase.RunResult{}, time.Second, errors.New("boom"))

	if got := testutil.ToFloat64(m.leaderboardRuns.WithLabelValues("partial")); got != 1 {
		t.Fatalf("expected one partial run, got %v", got)
	}
	if got := testutil.ToFloat64(m.leaderboardRuns.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected one failed run, got %v", got)
	}
	if got := testutil.ToFloat64(m.leaderboardRows.WithLabelValues("daily")); got != 2 {
		t.Fatalf("expected 2 daily rows, got %v", got)
	}
}

func TestMetricsHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveSelectionSubmission(usecase.SubmissionLocked)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `cricket_selection_submissions_total{outcome="locked"} 1`) {
		t.Fatalf("expected submission counter in output")
	}
}

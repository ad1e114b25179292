package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

var _ usecase.Metrics = (*Metrics)(nil)

// Metrics is the Prometheus implementation of usecase.Metrics plus HTTP
// request instrumentation.
type Metrics struct {
	leaderboardRuns     *prometheus.CounterVec
	leaderboardDuration prometheus.Histogram
	leaderboardRows     *prometheus.GaugeVec
	failedFixtures      prometheus.Gauge
	fixtureCache        *prometheus.CounterVec
	statsFetches        *prometheus.CounterVec
	submissions         *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors. If no registerer is given
// the default Prometheus registerer is used.
func NewMetrics(registerer ...prometheus.Registerer) *Metrics {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 && registerer[0] != nil {
		reg = registerer[0]
	}

	m := &Metrics{
		leaderboardRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_leaderboard_runs_total",
			Help: "Leaderboard aggregation runs by outcome.",
		}, []string{"outcome"}),
		leaderboardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cricket_leaderboard_run_duration_seconds",
			Help:    "Duration of leaderboard aggregation runs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		leaderboardRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cricket_leaderboard_rows_upserted",
			Help: "Rows written by the last successful run, by window kind.",
		}, []string{"kind"}),
		failedFixtures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cricket_leaderboard_failed_fixtures",
			Help: "Fixtures whose stats could not be fetched in the last successful run.",
		}),
		fixtureCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_fixture_cache_reads_total",
			Help: "Fixture list reads by source.",
		}, []string{"source"}),
		statsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_fixture_stats_fetches_total",
			Help: "Per-fixture stat fetches by result.",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_selection_submissions_total",
			Help: "Selection submissions by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cricket_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.leaderboardRuns,
		m.leaderboardDuration,
		m.leaderboardRows,
		m.failedFixtures,
		m.fixtureCache,
		m.statsFetches,
		m.submissions,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// NewMetricsHandler returns an http.Handler for the given gatherer, or the
// default gatherer when none is given.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 && gatherer[0] != nil {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveLeaderboardRun(result usecase.RunResult, elapsed time.Duration, err error) {
	m.leaderboardDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.leaderboardRuns.WithLabelValues("error").Inc()
		return
	}
	outcome := "success"
	if len(result.FailedFixtures) > 0 {
		outcome = "partial"
	}
	m.leaderboardRuns.WithLabelValues(outcome).Inc()
	m.failedFixtures.Set(float64(len(result.FailedFixtures)))
	for _, kind := range []leaderboard.WindowKind{leaderboard.KindLeague, leaderboard.KindWeekly, leaderboard.KindDaily} {
		m.leaderboardRows.WithLabelValues(string(kind)).Set(float64(result.RowsFor(kind)))
	}
}

func (m *Metrics) ObserveFixtureCache(outcome string) {
	m.fixtureCache.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStatsFetch(_ int64, failed bool) {
	result := "ok"
	if failed {
		result = "failed"
	}
	m.statsFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSelectionSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

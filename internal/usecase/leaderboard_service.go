package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/userprofile"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// StatsSource supplies fixture start times and per-fixture player stats.
type StatsSource interface {
	StartTimes(ctx context.Context) map[int64]time.Time
	GetFixtureStats(ctx context.Context, fixtureID int64) stats.FixtureStats
}

type LeaderboardServiceConfig struct {
	FetchWorkers     int
	WriteConcurrency int
	IncludeZeroRows  bool
	Rules            scoring.Rules
}

type WindowSummary struct {
	Kind leaderboard.WindowKind `json:"kind"`
	Key  string                 `json:"key"`
	Rows int                    `json:"rows"`
}

type RunResult struct {
	StartedAt           time.Time                 `json:"started_at"`
	FinishedAt          time.Time                 `json:"finished_at"`
	SelectionsProcessed int                       `json:"selections_processed"`
	UsersProcessed      int                       `json:"users_processed"`
	FixturesProcessed   int                       `json:"fixtures_processed"`
	FailedFixtures      []int64                   `json:"failed_fixtures"`
	RowsUpserted        int                       `json:"rows_upserted"`
	Windows             []WindowSummary           `json:"windows"`
	Debug               map[string]*UserBreakdown `json:"debug"`
}

// RowsFor counts written rows for one window kind.
func (r RunResult) RowsFor(kind leaderboard.WindowKind) int {
	total := 0
	for _, w := range r.Windows {
		if w.Kind == kind {
			total += w.Rows
		}
	}
	return total
}

type LeaderboardService struct {
	selectionRepo   selection.Repository
	leaderboardRepo leaderboard.Repository
	profileRepo     userprofile.Repository
	source          StatsSource
	cfg             LeaderboardServiceConfig
	metrics         Metrics
	logger          *logging.Logger
	running         atomic.Bool
	now             func() time.Time
}

func NewLeaderboardService(
	selectionRepo selection.Repository,
	leaderboardRepo leaderboard.Repository,
	profileRepo userprofile.Repository,
	source StatsSource,
	cfg LeaderboardServiceConfig,
	metrics Metrics,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = 4
	}
	if cfg.WriteConcurrency <= 0 {
		cfg.WriteConcurrency = 4
	}
	if cfg.Rules == (scoring.Rules{}) {
		cfg.Rules = scoring.DefaultRules()
	}

	return &LeaderboardService{
		selectionRepo:   selectionRepo,
		leaderboardRepo: leaderboardRepo,
		profileRepo:     profileRepo,
		source:          source,
		cfg:             cfg,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// Run recomputes every leaderboard window from all stored selections and
// upserts the results. Only one run may be in flight per process.
func (s *LeaderboardService) Run(ctx context.Context) (result RunResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Run")
	defer span.End()

	if !s.running.CompareAndSwap(false, true) {
		return RunResult{}, fmt.Errorf("%w: leaderboard run already in progress", ErrConflict)
	}
	defer s.running.Store(false)

	startedAt := s.now().UTC()
	defer func() {
		s.metrics.ObserveLeaderboardRun(result, s.now().Sub(startedAt), err)
	}()

	selections, err := s.selectionRepo.ListAll(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("list selections: %w", err)
	}

	fixtureIDs := distinctFixtureIDs(selections)
	startTimes := s.source.StartTimes(ctx)

	fixtureStats, err := s.fetchStats(ctx, fixtureIDs)
	if err != nil {
		return RunResult{}, err
	}

	agg := aggregate(aggregateInput{
		Selections:       selections,
		Stats:            fixtureStats,
		StartTimes:       startTimes,
		Rules:            s.cfg.Rules,
		IncludeZeroUsers: s.cfg.IncludeZeroRows,
	})

	names := s.displayNames(ctx, agg.Users)
	for userID, debug := range agg.Debug {
		debug.UserName = names[userID]
	}

	now := s.now().UTC()
	windows := sortedWindows(agg.Scores)
	batches := make([][]leaderboard.Row, len(windows))
	summaries := make([]WindowSummary, len(windows))
	rowCount := 0
	for i, window := range windows {
		batches[i] = rowsFor(window, agg.Scores[window], names, now)
		summaries[i] = WindowSummary{Kind: window.Kind, Key: window.Key, Rows: len(batches[i])}
		rowCount += len(batches[i])
	}

	if err := s.writeWindows(ctx, windows, batches); err != nil {
		return RunResult{}, err
	}

	failed := make([]int64, 0)
	for _, id := range fixtureIDs {
		if fixtureStats[id].Failed() {
			failed = append(failed, id)
		}
	}

	result = RunResult{
		StartedAt:           startedAt,
		FinishedAt:          s.now().UTC(),
		SelectionsProcessed: len(selections),
		UsersProcessed:      len(agg.Users),
		FixturesProcessed:   len(fixtureIDs),
		FailedFixtures:      failed,
		RowsUpserted:        rowCount,
		Windows:             summaries,
		Debug:               agg.Debug,
	}
	span.SetAttributes(
		attribute.Int("leaderboard.selections", result.SelectionsProcessed),
		attribute.Int("leaderboard.fixtures", result.FixturesProcessed),
		attribute.Int("leaderboard.failed_fixtures", len(failed)),
		attribute.Int("leaderboard.rows", rowCount),
	)
	s.logger.InfoContext(ctx, "leaderboard run completed",
		"selections", result.SelectionsProcessed,
		"users", result.UsersProcessed,
		"fixtures", result.FixturesProcessed,
		"failed_fixtures", failed,
		"windows", len(windows),
		"rows", rowCount,
	)
	return result, nil
}

func (s *LeaderboardService) fetchStats(ctx context.Context, fixtureIDs []int64) (map[int64]stats.FixtureStats, error) {
	out := make(map[int64]stats.FixtureStats, len(fixtureIDs))
	if len(fixtureIDs) == 0 {
		return out, nil
	}

	workerCount := s.cfg.FetchWorkers
	if workerCount > len(fixtureIDs) {
		workerCount = len(fixtureIDs)
	}
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create stats worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, fixtureID := range fixtureIDs {
		fixtureID := fixtureID
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			fs := s.source.GetFixtureStats(ctx, fixtureID)
			mu.Lock()
			out[fixtureID] = fs
			mu.Unlock()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit stats fetch for fixture %d: %w", fixtureID, err)
		}
	}
	wg.Wait()

	return out, nil
}

func (s *LeaderboardService) displayNames(ctx context.Context, userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	for _, userID := range userIDs {
		names[userID] = userID
	}
	if len(userIDs) == 0 || s.profileRepo == nil {
		return names
	}

	profiles, err := s.profileRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "load user profiles failed, using user ids as names", "users", len(userIDs), "error", err)
		return names
	}
	for userID, profile := range profiles {
		if profile.UserID == "" {
			profile.UserID = userID
		}
		names[userID] = profile.DisplayName()
	}
	return names
}

// writeWindows upserts each window in its own transaction. A failure cancels
// the windows not yet started but cannot roll back those already committed;
// the error names them so the next run, which rewrites every window, is known
// to be the repair.
func (s *LeaderboardService) writeWindows(ctx context.Context, windows []leaderboard.Window, batches [][]leaderboard.Row) error {
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(s.cfg.WriteConcurrency)

	var (
		mu        sync.Mutex
		committed []string
	)
	for i := range windows {
		window := windows[i]
		rows := batches[i]
		p.Go(func(ctx context.Context) error {
			if err := s.leaderboardRepo.UpsertWindow(ctx, window, rows); err != nil {
				return fmt.Errorf("upsert %s leaderboard: %w", window, err)
			}
			mu.Lock()
			committed = append(committed, window.String())
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		sort.Strings(committed)
		s.logger.ErrorContext(ctx, "leaderboard write incomplete, committed windows kept until next run",
			"committed", committed,
			"windows", len(windows),
			"error", err,
		)
		return fmt.Errorf("%w (committed %d of %d windows)", err, len(committed), len(windows))
	}
	return nil
}

// League returns the ranked all-time leaderboard.
func (s *LeaderboardService) League(ctx context.Context) ([]leaderboard.Row, error) {
	return s.Window(ctx, leaderboard.KindLeague, leaderboard.LeagueKey)
}

// Window returns the ranked rows of one window. Storage failures degrade to an
// empty list; a malformed key is rejected.
func (s *LeaderboardService) Window(ctx context.Context, kind leaderboard.WindowKind, key string) ([]leaderboard.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Window")
	defer span.End()

	window, err := leaderboard.ParseWindow(kind, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rows, err := s.leaderboardRepo.ListWindow(ctx, window)
	if err != nil {
		s.logger.WarnContext(ctx, "read leaderboard failed", "window", window.String(), "error", err)
		return []leaderboard.Row{}, nil
	}
	return leaderboard.AssignRanks(rows), nil
}

// WindowKeys lists the stored weekly or daily keys, newest first.
func (s *LeaderboardService) WindowKeys(ctx context.Context, kind leaderboard.WindowKind) ([]string, error) {
	if kind != leaderboard.KindWeekly && kind != leaderboard.KindDaily {
		return nil, fmt.Errorf("%w: window keys are only listed for weekly and daily", ErrInvalidInput)
	}

	keys, err := s.leaderboardRepo.ListWindowKeys(ctx, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "list leaderboard keys failed", "kind", string(kind), "error", err)
		return []string{}, nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

func distinctFixtureIDs(selections []selection.Selection) []int64 {
	seen := make(map[int64]struct{}, len(selections))
	out := make([]int64, 0, len(selections))
	for _, sel := range selections {
		if _, ok := seen[sel.FixtureID]; ok {
			continue
		}
		seen[sel.FixtureID] = struct{}{}
		out = append(out, sel.FixtureID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

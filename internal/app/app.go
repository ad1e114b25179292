package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/external/jobqueue"
	"github.com/riskibarqy/cricket-fantasy/external/sportmonks"
	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/lockoverride"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/userprofile"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/account/jwtauth"
	cacherepo "github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-fantasy/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-fantasy/internal/observability"
	basecache "github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const leaderboardScheduleBucket = time.Minute

// App owns the HTTP server and everything that has to be closed with it.
type App struct {
	Server *http.Server

	logger      *logging.Logger
	db          *sqlx.DB
	pprofServer *http.Server
	shutdowns   []func(context.Context) error
	cfg         config.Config
}

type repositories struct {
	selections   selection.Repository
	leaderboards leaderboard.Repository
	overrides    lockoverride.Repository
	profiles     userprofile.Repository
	fixtureCache fixture.CacheRepository
	squadCache   squad.CacheRepository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger, cfg: cfg}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	a.shutdowns = append(a.shutdowns, shutdownTracing)

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func(context.Context) error { return stopProfiler() })

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("start pprof server: %w", err)
	}
	a.pprofServer = pprofServer

	repos, err := a.openRepositories(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	var (
		metrics        usecase.Metrics = usecase.NewNoopMetrics()
		httpMetrics    httpapi.HTTPMetrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		m := observability.NewMetrics()
		metrics = m
		httpMetrics = m
		metricsHandler = observability.NewMetricsHandler()
	}

	provider := sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:    cfg.SportMonksBaseURL,
		Token:      cfg.SportMonksToken,
		LeagueID:   cfg.SportMonksLeagueID,
		Timeout:    cfg.SportMonksTimeout,
		MaxRetries: cfg.SportMonksMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
		},
	})
	if !cfg.SportMonksEnabled {
		logger.Warn("sportmonks is disabled; fixture and stats reads will degrade")
	}

	fixtureService := usecase.NewFixtureService(repos.fixtureCache, provider, usecase.FixtureServiceConfig{
		DaysBefore: cfg.FixtureDaysBefore,
		DaysAfter:  cfg.FixtureDaysAfter,
		Policy:     fixtureCachePolicy(cfg),
	}, metrics, logger)
	squadService := usecase.NewSquadService(repos.squadCache, provider, usecase.SquadServiceConfig{
		TTL: cfg.SquadCacheTTL,
	}, logger)
	leaderboardService := usecase.NewLeaderboardService(
		repos.selections,
		repos.leaderboards,
		repos.profiles,
		fixtureService,
		usecase.LeaderboardServiceConfig{
			FetchWorkers:     cfg.LeaderboardFetchWorkers,
			WriteConcurrency: cfg.LeaderboardWriteConcurrency,
			IncludeZeroRows:  cfg.LeaderboardIncludeZeroRows,
			Rules:            scoring.DefaultRules(),
		},
		metrics,
		logger,
	)
	lockGate := usecase.NewLockGate(repos.overrides, logger)
	selectionService := usecase.NewSelectionService(repos.selections, lockGate, fixtureService, idgen.NewUUIDGenerator(), metrics, logger)

	queue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}
	scheduler := usecase.NewLeaderboardJobScheduler(queue, leaderboardScheduleBucket, logger)

	handler := httpapi.NewHandler(fixtureService, squadService, leaderboardService, selectionService, lockGate, scheduler, logger)
	router := httpapi.NewRouter(handler, jwtauth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer, logger), logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		Metrics:            httpMetrics,
		MetricsHandler:     metricsHandler,
	})

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}

// Close releases the database, profilers and trace exporters.
func (a *App) Close(ctx context.Context) {
	if a.pprofServer != nil {
		if err := observability.StopPprofServer(a.pprofServer, a.logger, a.shutdownTimeout()); err != nil {
			a.logger.Warn("stop pprof server failed", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database failed", "error", err)
		}
	}
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			a.logger.Warn("observability shutdown failed", "error", err)
		}
	}
	_ = a.logger.Sync()
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg.ShutdownTimeout > 0 {
		return a.cfg.ShutdownTimeout
	}
	return 10 * time.Second
}

// openRepositories uses Postgres when DB_URL is set and in-memory storage
// otherwise. Profile and leaderboard reads get a TTL cache when enabled.
func (a *App) openRepositories(ctx context.Context) (repositories, error) {
	var repos repositories
	if a.cfg.DBURL == "" {
		a.logger.Warn("DB_URL is empty; using in-memory storage")
		repos = repositories{
			selections:   memory.NewSelectionRepository(),
			leaderboards: memory.NewLeaderboardRepository(),
			overrides:    memory.NewLockOverrideRepository(),
			profiles:     memory.NewUserProfileRepository(),
			fixtureCache: memory.NewFixtureCacheRepository(),
			squadCache:   memory.NewSquadCacheRepository(),
		}
	} else {
		db, err := openDB(ctx, a.cfg)
		if err != nil {
			return repositories{}, err
		}
		a.db = db
		repos = repositories{
			selections:   postgres.NewSelectionRepository(db),
			leaderboards: postgres.NewLeaderboardRepository(db),
			overrides:    postgres.NewLockOverrideRepository(db),
			profiles:     postgres.NewUserProfileRepository(db),
			fixtureCache: postgres.NewFixtureCacheRepository(db),
			squadCache:   postgres.NewSquadCacheRepository(db),
		}
	}

	if a.cfg.CacheEnabled {
		store := basecache.NewStore(a.cfg.CacheTTL)
		repos.profiles = cacherepo.NewUserProfileRepository(repos.profiles, store)
		repos.leaderboards = cacherepo.NewLeaderboardRepository(repos.leaderboards, store)
	}
	return repos, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, opts...)
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func fixtureCachePolicy(cfg config.Config) usecase.CachePolicy {
	if cfg.FixtureCachePolicy == config.FixtureCachePolicyStatus {
		return usecase.StatusCachePolicy{Default: cfg.FixtureCacheTTL}
	}
	return usecase.FixedCachePolicy{TTL: cfg.FixtureCacheTTL}
}

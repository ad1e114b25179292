package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
)

type SquadServiceConfig struct {
	TTL            time.Duration
	RefreshWorkers int
}

type SquadRefreshResult struct {
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

type SquadService struct {
	cacheRepo squad.CacheRepository
	provider  SquadProvider
	ttl       time.Duration
	workers   int
	logger    *logging.Logger
	flight    resilience.Flight[squad.Squad]
	now       func() time.Time
}

func NewSquadService(cacheRepo squad.CacheRepository, provider SquadProvider, cfg SquadServiceConfig, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.RefreshWorkers <= 0 {
		cfg.RefreshWorkers = 4
	}
	return &SquadService{
		cacheRepo: cacheRepo,
		provider:  provider,
		ttl:       cfg.TTL,
		workers:   cfg.RefreshWorkers,
		logger:    logger,
		now:       time.Now,
	}
}

// GetSquad serves a cached squad younger than the TTL, otherwise fetches it.
// Provider failures fall back to the stale entry or an empty squad.
func (s *SquadService) GetSquad(ctx context.Context, teamID, seasonID int64) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetSquad")
	defer span.End()

	if teamID <= 0 || seasonID <= 0 {
		return squad.Squad{}, fmt.Errorf("%w: team and season ids must be positive", ErrInvalidInput)
	}
	key := squad.Key{TeamID: teamID, SeasonID: seasonID}
	now := s.now().UTC()

	cached, ok, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "read squad cache failed", "team_id", teamID, "season_id", seasonID, "error", err)
		ok = false
	}
	if ok && cache.NewEntry(cached, cached.FetchedAt, s.ttl).Fresh(now) {
		return cached, nil
	}

	fresh, err := s.fetchAndStore(ctx, key)
	if err == nil {
		return fresh, nil
	}
	if ok {
		s.logger.WarnContext(ctx, "serving stale squad after provider failure", "team_id", teamID, "season_id", seasonID, "error", err)
		return cached, nil
	}
	s.logger.WarnContext(ctx, "no squad available after provider failure", "team_id", teamID, "season_id", seasonID, "error", err)
	return squad.Squad{TeamID: teamID, SeasonID: seasonID, Players: []squad.Player{}}, nil
}

// RefreshAll refetches every cached squad. Failures are counted, not returned.
func (s *SquadService) RefreshAll(ctx context.Context) (SquadRefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.RefreshAll")
	defer span.End()

	keys, err := s.cacheRepo.ListKeys(ctx)
	if err != nil {
		return SquadRefreshResult{}, fmt.Errorf("list cached squads: %w", err)
	}

	var refreshed, failed atomic.Int32
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for _, key := range keys {
		key := key
		p.Go(func(ctx context.Context) error {
			if _, err := s.fetchAndStore(ctx, key); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "refresh squad failed", "team_id", key.TeamID, "season_id", key.SeasonID, "error", err)
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return SquadRefreshResult{}, err
	}

	result := SquadRefreshResult{Refreshed: int(refreshed.Load()), Failed: int(failed.Load())}
	s.logger.InfoContext(ctx, "squads refreshed", "refreshed", result.Refreshed, "failed", result.Failed)
	return result, nil
}

func (s *SquadService) fetchAndStore(ctx context.Context, key squad.Key) (squad.Squad, error) {
	flightKey := fmt.Sprintf("%d:%d", key.TeamID, key.SeasonID)
	item, _, err := s.flight.Do(flightKey, func() (squad.Squad, error) {
		item, err := s.provider.FetchSquad(ctx, key.TeamID, key.SeasonID)
		if err != nil {
			return squad.Squad{}, fmt.Errorf("fetch squad: %w", err)
		}
		item.TeamID = key.TeamID
		item.SeasonID = key.SeasonID
		item.FetchedAt = s.now().UTC()
		if item.Players == nil {
			item.Players = []squad.Player{}
		}
		if err := s.cacheRepo.Upsert(ctx, item); err != nil {
			return squad.Squad{}, fmt.Errorf("save squad: %w", err)
		}
		return item, nil
	})
	return item, err
}

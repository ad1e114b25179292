package cache

import (
	"context"
	"sort"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/userprofile"
	basecache "github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
)

type UserProfileRepository struct {
	next  userprofile.Repository
	cache *basecache.Store
}

func NewUserProfileRepository(next userprofile.Repository, cache *basecache.Store) *UserProfileRepository {
	return &UserProfileRepository{next: next, cache: cache}
}

// ListByIDs serves cached profiles and loads only the misses. Unknown users
// are cached as absent too.
func (r *UserProfileRepository) ListByIDs(ctx context.Context, userIDs []string) (map[string]userprofile.Profile, error) {
	out := make(map[string]userprofile.Profile, len(userIDs))
	missing := make([]string, 0)
	for _, id := range userIDs {
		v, ok := r.cache.Get(ctx, profileKey(id))
		if !ok {
			missing = append(missing, id)
			continue
		}
		if cached, _ := v.(cachedProfile); cached.exists {
			out[id] = cached.value
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	sort.Strings(missing)
	loaded, err := r.next.ListByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		p, ok := loaded[id]
		r.cache.Set(ctx, profileKey(id), cachedProfile{value: p, exists: ok})
		if ok {
			out[id] = p
		}
	}
	return out, nil
}

type cachedProfile struct {
	value  userprofile.Profile
	exists bool
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

type LeaderboardRepository struct {
	next  leaderboard.Repository
	cache *basecache.Store
}

func NewLeaderboardRepository(next leaderboard.Repository, cache *basecache.Store) *LeaderboardRepository {
	return &LeaderboardRepository{next: next, cache: cache}
}

func (r *LeaderboardRepository) UpsertWindow(ctx context.Context, window leaderboard.Window, rows []leaderboard.Row) error {
	if err := r.next.UpsertWindow(ctx, window, rows); err != nil {
		return err
	}
	r.cache.Delete(ctx, windowKey(window))
	r.cache.Delete(ctx, windowKeysKey(window.Kind))
	return nil
}

func (r *LeaderboardRepository) ListWindow(ctx context.Context, window leaderboard.Window) ([]leaderboard.Row, error) {
	v, err := r.cache.GetOrLoad(ctx, windowKey(window), func(ctx context.Context) (any, error) {
		items, err := r.next.ListWindow(ctx, window)
		if err != nil {
			return nil, err
		}
		return append([]leaderboard.Row(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]leaderboard.Row)
	return append([]leaderboard.Row(nil), items...), nil
}

func (r *LeaderboardRepository) ListWindowKeys(ctx context.Context, kind leaderboard.WindowKind) ([]string, error) {
	v, err := r.cache.GetOrLoad(ctx, windowKeysKey(kind), func(ctx context.Context) (any, error) {
		items, err := r.next.ListWindowKeys(ctx, kind)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]string)
	return append([]string(nil), items...), nil
}

func windowKey(window leaderboard.Window) string {
	return "leaderboard:window:" + window.String()
}

func windowKeysKey(kind leaderboard.WindowKind) string {
	return "leaderboard:keys:" + string(kind)
}

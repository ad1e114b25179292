package fixture

import "context"

// CacheRepository persists provider snapshots. Only the newest one is read back.
type CacheRepository interface {
	LatestSnapshot(ctx context.Context) (Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
}

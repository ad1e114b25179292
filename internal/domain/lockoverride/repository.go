package lockoverride

import (
	"context"
	"time"
)

type Repository interface {
	// Get reads the current row. A missing row reads as disabled.
	Get(ctx context.Context) (Override, error)
	Set(ctx context.Context, enabled bool, at time.Time) (Override, error)
}

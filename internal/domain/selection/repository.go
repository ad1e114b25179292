package selection

import "context"

type Repository interface {
	ListAll(ctx context.Context) ([]Selection, error)
	GetByUserAndFixture(ctx context.Context, userID string, fixtureID int64) (Selection, bool, error)
	// Create returns ErrAlreadySubmitted when (user, fixture) already exists.
	Create(ctx context.Context, s Selection) error
}

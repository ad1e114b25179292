package leaderboard

import "context"

type Repository interface {
	// UpsertWindow overwrites one row per (window, user). Rows absent from the
	// batch are left untouched.
	UpsertWindow(ctx context.Context, window Window, rows []Row) error
	ListWindow(ctx context.Context, window Window) ([]Row, error)
	// ListWindowKeys returns distinct keys for a kind, newest first.
	ListWindowKeys(ctx context.Context, kind WindowKind) ([]string, error)
}

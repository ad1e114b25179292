package userprofile

import (
	"context"
	"strings"
)

type Profile struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
}

// DisplayName prefers "First Last", then email, then the raw user id.
func (p Profile) DisplayName() string {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	if first != "" && last != "" {
		return first + " " + last
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		return email
	}
	return p.UserID
}

type Repository interface {
	// ListByIDs returns the profiles found, keyed by user id.
	ListByIDs(ctx context.Context, userIDs []string) (map[string]Profile, error)
}

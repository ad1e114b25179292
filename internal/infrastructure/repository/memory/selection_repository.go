package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
)

type SelectionRepository struct {
	mu    sync.RWMutex
	items map[string]selection.Selection
}

func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{items: make(map[string]selection.Selection)}
}

func (r *SelectionRepository) ListAll(_ context.Context) ([]selection.Selection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]selection.Selection, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneSelection(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SelectionRepository) GetByUserAndFixture(_ context.Context, userID string, fixtureID int64) (selection.Selection, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[selectionKey(userID, fixtureID)]
	if !ok {
		return selection.Selection{}, false, nil
	}
	return cloneSelection(item), true, nil
}

func (r *SelectionRepository) Create(_ context.Context, item selection.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := selectionKey(item.UserID, item.FixtureID)
	if _, exists := r.items[key]; exists {
		return selection.ErrAlreadySubmitted
	}
	r.items[key] = cloneSelection(item)
	return nil
}

func selectionKey(userID string, fixtureID int64) string {
	return userID + "::" + strconv.FormatInt(fixtureID, 10)
}

func cloneSelection(s selection.Selection) selection.Selection {
	copied := s
	copied.TeamAIDs = append([]int64(nil), s.TeamAIDs...)
	copied.TeamANames = append([]string(nil), s.TeamANames...)
	copied.TeamBIDs = append([]int64(nil), s.TeamBIDs...)
	copied.TeamBNames = append([]string(nil), s.TeamBNames...)
	if s.FixtureStartsAt != nil {
		start := *s.FixtureStartsAt
		copied.FixtureStartsAt = &start
	}
	return copied
}

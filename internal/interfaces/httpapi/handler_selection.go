package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/lockoverride"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

type submitSelectionRequest struct {
	FixtureID  int64    `json:"fixture_id" validate:"required,gt=0"`
	TeamAIDs   []int64  `json:"team_a_ids"`
	TeamANames []string `json:"team_a_names" validate:"omitempty,dive,max=120"`
	TeamBIDs   []int64  `json:"team_b_ids"`
	TeamBNames []string `json:"team_b_names" validate:"omitempty,dive,max=120"`
}

type selectionDTO struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	FixtureID         int64      `json:"fixture_id"`
	FixtureStartingAt *time.Time `json:"fixture_starting_at,omitempty"`
	TeamAIDs          []int64    `json:"team_a_ids"`
	TeamANames        []string   `json:"team_a_names"`
	TeamBIDs          []int64    `json:"team_b_ids"`
	TeamBNames        []string   `json:"team_b_names"`
	CreatedAt         time.Time  `json:"created_at"`
}

type lockStatusDTO struct {
	FixtureID int64 `json:"fixture_id,omitempty"`
	usecase.LockStatus
}

type lockOverrideDTO struct {
	OverrideEnabled bool      `json:"override_enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (h *Handler) SubmitSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitSelection")
	defer span.End()

	if !requireService(ctx, w, h.selectionService != nil, "selection service") {
		return
	}

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitSelectionRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.selectionService.Submit(ctx, usecase.SubmitSelectionInput{
		UserID:     principal.UserID,
		FixtureID:  req.FixtureID,
		TeamAIDs:   req.TeamAIDs,
		TeamANames: req.TeamANames,
		TeamBIDs:   req.TeamBIDs,
		TeamBNames: req.TeamBNames,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit selection rejected", "user_id", principal.UserID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, selectionToDTO(created))
}

func (h *Handler) GetMySelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySelection")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID, err := parsePositiveInt64("fixtureID", r.PathValue("fixtureID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.writeSelection(ctx, w, principal.UserID, fixtureID)
}

// LookupSelection serves ?user_id=&fixture_id= for operators.
func (h *Handler) LookupSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LookupSelection")
	defer span.End()

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(ctx, w, fmt.Errorf("%w: user_id is required", usecase.ErrInvalidInput))
		return
	}
	fixtureID, err := parsePositiveInt64("fixture_id", r.URL.Query().Get("fixture_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.writeSelection(ctx, w, userID, fixtureID)
}

func (h *Handler) writeSelection(ctx context.Context, w http.ResponseWriter, userID string, fixtureID int64) {
	if !requireService(ctx, w, h.selectionService != nil, "selection service") {
		return
	}

	item, err := h.selectionService.Get(ctx, userID, fixtureID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionToDTO(item))
}

// GetLockStatus reports the override and, when fixture_id is given, the
// derived state for that fixture. The start is resolved the same way a
// submission resolves it.
func (h *Handler) GetLockStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLockStatus")
	defer span.End()

	if !requireService(ctx, w, h.lockGate != nil, "lock gate") {
		return
	}

	var (
		fixtureID int64
		start     time.Time
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("fixture_id")); raw != "" {
		parsed, err := parsePositiveInt64("fixture_id", raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		fixtureID = parsed
		if !requireService(ctx, w, h.fixtureService != nil, "fixture service") {
			return
		}
		start, err = h.fixtureService.ResolveStart(ctx, fixtureID)
		if err != nil {
			h.logger.WarnContext(ctx, "resolve fixture start failed", "fixture_id", fixtureID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	status, err := h.lockGate.Status(ctx, start)
	if err != nil {
		h.logger.WarnContext(ctx, "read lock status failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockStatusDTO{FixtureID: fixtureID, LockStatus: status})
}

func (h *Handler) LockSelections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockSelections")
	defer span.End()

	h.setLockOverride(ctx, w, false)
}

func (h *Handler) UnlockSelections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockSelections")
	defer span.End()

	h.setLockOverride(ctx, w, true)
}

func (h *Handler) setLockOverride(ctx context.Context, w http.ResponseWriter, enabled bool) {
	if !requireService(ctx, w, h.lockGate != nil, "lock gate") {
		return
	}

	var (
		override lockoverride.Override
		err      error
	)
	if enabled {
		override, err = h.lockGate.ForceUnlock(ctx)
	} else {
		override, err = h.lockGate.ForceLock(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "set lock override failed", "enabled", enabled, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "lock override updated", "enabled", override.Enabled)
	writeSuccess(ctx, w, http.StatusOK, lockOverrideDTO{
		OverrideEnabled: override.Enabled,
		UpdatedAt:       override.UpdatedAt.UTC(),
	})
}

func selectionToDTO(item selection.Selection) selectionDTO {
	out := selectionDTO{
		ID:         item.ID,
		UserID:     item.UserID,
		FixtureID:  item.FixtureID,
		TeamAIDs:   nonNilInt64s(item.TeamAIDs),
		TeamANames: nonNilStrings(item.TeamANames),
		TeamBIDs:   nonNilInt64s(item.TeamBIDs),
		TeamBNames: nonNilStrings(item.TeamBNames),
		CreatedAt:  item.CreatedAt.UTC(),
	}
	if item.FixtureStartsAt != nil {
		start := item.FixtureStartsAt.UTC()
		out.FixtureStartingAt = &start
	}
	return out
}

func nonNilInt64s(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

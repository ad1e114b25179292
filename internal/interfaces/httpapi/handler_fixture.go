package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
)

type fixtureListDTO struct {
	Fixtures  []fixture.Fixture `json:"fixtures"`
	FetchedAt *time.Time        `json:"fetched_at,omitempty"`
	Source    string            `json:"source"`
}

type fixtureRefreshDTO struct {
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	if !requireService(ctx, w, h.fixtureService != nil, "fixture service") {
		return
	}

	result, err := h.fixtureService.GetFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := fixtureListDTO{
		Fixtures: result.Fixtures,
		Source:   result.Source,
	}
	if out.Fixtures == nil {
		out.Fixtures = []fixture.Fixture{}
	}
	if !result.FetchedAt.IsZero() {
		fetched := result.FetchedAt.UTC()
		out.FetchedAt = &fetched
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RefreshFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshFixtures")
	defer span.End()

	if !requireService(ctx, w, h.fixtureService != nil, "fixture service") {
		return
	}

	result, err := h.fixtureService.Refresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureRefreshDTO{
		Count:     len(result.Fixtures),
		FetchedAt: result.FetchedAt.UTC(),
	})
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	if !requireService(ctx, w, h.squadService != nil, "squad service") {
		return
	}

	teamID, err := parsePositiveInt64("teamID", r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := parsePositiveInt64("seasonID", r.PathValue("seasonID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.squadService.GetSquad(ctx, teamID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "team_id", teamID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if item.Players == nil {
		item.Players = []squad.Player{}
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) RefreshSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshSquads")
	defer span.End()

	if !requireService(ctx, w, h.squadService != nil, "squad service") {
		return
	}

	result, err := h.squadService.RefreshAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh squads failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

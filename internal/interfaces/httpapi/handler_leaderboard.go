package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
)

type leaderboardRowDTO struct {
	Rank      int       `json:"rank"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

type leaderboardDTO struct {
	Kind leaderboard.WindowKind `json:"kind"`
	Key  string                 `json:"key"`
	Rows []leaderboardRowDTO    `json:"rows"`
}

type windowKeysDTO struct {
	Kind leaderboard.WindowKind `json:"kind"`
	Keys []string               `json:"keys"`
}

func (h *Handler) GetLeagueLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueLeaderboard")
	defer span.End()

	h.writeLeaderboard(ctx, w, leaderboard.KindLeague, leaderboard.LeagueKey)
}

// GetWeeklyLeaderboard serves ?week_start=YYYY-MM-DD, defaulting to the current week.
func (h *Handler) GetWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeeklyLeaderboard")
	defer span.End()

	key := strings.TrimSpace(r.URL.Query().Get("week_start"))
	if key == "" {
		key = leaderboard.WeeklyWindow(time.Now()).Key
	}
	h.writeLeaderboard(ctx, w, leaderboard.KindWeekly, key)
}

// GetDailyLeaderboard serves ?date=YYYY-MM-DD, defaulting to today (UTC).
func (h *Handler) GetDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDailyLeaderboard")
	defer span.End()

	key := strings.TrimSpace(r.URL.Query().Get("date"))
	if key == "" {
		key = leaderboard.DailyWindow(time.Now()).Key
	}
	h.writeLeaderboard(ctx, w, leaderboard.KindDaily, key)
}

func (h *Handler) ListLeaderboardWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaderboardWeeks")
	defer span.End()

	h.writeWindowKeys(ctx, w, leaderboard.KindWeekly)
}

func (h *Handler) ListLeaderboardDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaderboardDays")
	defer span.End()

	h.writeWindowKeys(ctx, w, leaderboard.KindDaily)
}

func (h *Handler) writeLeaderboard(ctx context.Context, w http.ResponseWriter, kind leaderboard.WindowKind, key string) {
	if !requireService(ctx, w, h.leaderboardService != nil, "leaderboard service") {
		return
	}

	rows, err := h.leaderboardService.Window(ctx, kind, key)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		Kind: kind,
		Key:  key,
		Rows: leaderboardRowsToDTO(rows),
	})
}

func (h *Handler) writeWindowKeys(ctx context.Context, w http.ResponseWriter, kind leaderboard.WindowKind) {
	if !requireService(ctx, w, h.leaderboardService != nil, "leaderboard service") {
		return
	}

	keys, err := h.leaderboardService.WindowKeys(ctx, kind)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}

	writeSuccess(ctx, w, http.StatusOK, windowKeysDTO{Kind: kind, Keys: keys})
}

func leaderboardRowsToDTO(rows []leaderboard.Row) []leaderboardRowDTO {
	out := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		rank := 0
		if row.Rank != nil {
			rank = *row.Rank
		}
		out = append(out, leaderboardRowDTO{
			Rank:      rank,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Score:     row.Score,
			UpdatedAt: row.UpdatedAt.UTC(),
		})
	}
	return out
}

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

// catchAllPattern answers every request no other route claims.
const catchAllPattern = "/"

var routeMethods = []string{http.MethodGet, http.MethodPost}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	mux.Handle(catchAllPattern, unmatchedRoute(mux))
}

// unmatchedRoute writes the JSON envelope for paths no route serves, and 405
// when the path exists under another method.
func unmatchedRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.unmatchedRoute")
		defer span.End()

		allowed := make([]string, 0, len(routeMethods))
		for _, method := range routeMethods {
			if method == r.Method {
				continue
			}
			alt := r.Clone(ctx)
			alt.Method = method
			if _, pattern := mux.Handler(alt); pattern != "" && pattern != catchAllPattern {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) > 0 {
			for _, method := range allowed {
				w.Header().Add("Allow", method)
			}
			writeError(ctx, w, fmt.Errorf("%w: %s %s", errMethodNotAllowed, r.Method, r.URL.Path))
			return
		}

		writeError(ctx, w, fmt.Errorf("%w: no route for %s %s", usecase.ErrNotFound, r.Method, r.URL.Path))
	})
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/squads/{teamID}/seasons/{seasonID}", handler.GetSquad)
	mux.HandleFunc("GET /v1/leaderboards/league", handler.GetLeagueLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/weekly", handler.GetWeeklyLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/weekly/weeks", handler.ListLeaderboardWeeks)
	mux.HandleFunc("GET /v1/leaderboards/daily", handler.GetDailyLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/daily/days", handler.ListLeaderboardDays)
	mux.HandleFunc("GET /v1/selections/lock-status", handler.GetLockStatus)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/selections", RequireAuth(verifier, http.HandlerFunc(handler.SubmitSelection)))
	mux.Handle("GET /v1/selections/{fixtureID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMySelection)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, h)
	}

	mux.Handle("POST /v1/internal/jobs/leaderboard", internal(handler.RunLeaderboardJob))
	mux.Handle("POST /v1/internal/jobs/leaderboard/schedule", internal(handler.ScheduleLeaderboardJob))
	mux.Handle("POST /v1/internal/selections/lock", internal(handler.LockSelections))
	mux.Handle("POST /v1/internal/selections/unlock", internal(handler.UnlockSelections))
	mux.Handle("GET /v1/internal/selections", internal(handler.LookupSelection))
	mux.Handle("POST /v1/internal/fixtures/refresh", internal(handler.RefreshFixtures))
	mux.Handle("POST /v1/internal/squads/refresh", internal(handler.RefreshSquads))
}

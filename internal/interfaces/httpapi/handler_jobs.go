package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/cricket-fantasy/internal/observability"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

type runLeaderboardRequest struct {
	DispatchID   string `json:"dispatch_id" validate:"omitempty,max=200"`
	Reason       string `json:"reason" validate:"omitempty,max=100"`
	IncludeDebug *bool  `json:"include_debug"`
}

type scheduleLeaderboardRequest struct {
	DelaySeconds int64  `json:"delay_seconds" validate:"gte=0,lte=604800"`
	Reason       string `json:"reason" validate:"omitempty,max=100"`
}

// RunLeaderboardJob runs one aggregation synchronously. Profile samples taken
// during the run carry the job and trigger labels.
func (h *Handler) RunLeaderboardJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeaderboardJob")
	defer span.End()

	if !requireService(ctx, w, h.leaderboardService != nil, "leaderboard service") {
		return
	}

	var req runLeaderboardRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	trigger := strings.TrimSpace(req.Reason)
	if trigger == "" {
		trigger = "manual"
	}

	var (
		result usecase.RunResult
		err    error
	)
	pyroscope.TagWrapper(ctx, observability.LeaderboardProfileLabels(trigger), func(ctx context.Context) {
		result, err = h.leaderboardService.Run(ctx)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run leaderboard job failed", "dispatch_id", req.DispatchID, "trigger", trigger, "error", err)
		writeError(ctx, w, err)
		return
	}

	if req.IncludeDebug != nil && !*req.IncludeDebug {
		result.Debug = nil
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ScheduleLeaderboardJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleLeaderboardJob")
	defer span.End()

	if !requireService(ctx, w, h.jobScheduler != nil, "job scheduler") {
		return
	}

	var req scheduleLeaderboardRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "manual"
	}

	result, err := h.jobScheduler.Schedule(ctx, time.Duration(req.DelaySeconds)*time.Second, reason)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule leaderboard job failed", "reason", reason, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, result)
}

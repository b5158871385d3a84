package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cup-tracker/internal/usecase"
)

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	matchID, err := pathInt(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitScoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update, err := h.matchService.SubmitScore(ctx, matchID, string(req.HomeScore), string(req.AwayScore), req.Completed)
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchUpdateToDTO(update))
}

func (h *Handler) FixMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixMatch")
	defer span.End()

	matchID, err := pathInt(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req fixMatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update, err := h.matchService.Fix(ctx, matchID, req.HomeTeam, req.AwayTeam)
	if err != nil {
		h.logger.WarnContext(ctx, "fix match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchUpdateToDTO(update))
}

func (h *Handler) ReopenMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenMatch")
	defer span.End()

	matchID, err := pathInt(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	update, err := h.matchService.Reopen(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "reopen match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchUpdateToDTO(update))
}

func (h *Handler) UpdateKnockoutResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateKnockoutResult")
	defer span.End()

	matchID, err := pathInt(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req knockoutResultRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update, err := h.matchService.UpdateKnockoutResult(ctx, matchID, usecase.KnockoutInput{
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		HomeScore: string(req.HomeScore),
		AwayScore: string(req.AwayScore),
		Completed: req.Completed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update knockout result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchUpdateToDTO(update))
}

func (h *Handler) ResetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetTournament")
	defer span.End()

	if err := h.bootstrapService.Reset(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.logger.WarnContext(ctx, "tournament reset requested", "client_ip", clientIP(r))
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "reset"})
}

package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cup-tracker/internal/usecase"
)

func (h *Handler) ListScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScorers")
	defer span.End()

	scorers, err := h.scorerService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list scorers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorersToDTO(scorers))
}

func (h *Handler) ListScorerNames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScorerNames")
	defer span.End()

	names, err := h.scorerService.Names(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list scorer names failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, names)
}

func (h *Handler) AddScorer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddScorer")
	defer span.End()

	var req scorerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update, err := h.scorerService.Add(ctx, usecase.ScorerInput{Name: req.Name, Team: req.Team, Goals: *req.Goals})
	if err != nil {
		h.logger.WarnContext(ctx, "add scorer failed", "name", req.Name, "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if update.Created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, scorerUpdateToDTO(update))
}

func (h *Handler) UpdateScorer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScorer")
	defer span.End()

	index, err := pathInt(r, "index")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req scorerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update, err := h.scorerService.UpdateAt(ctx, index, usecase.ScorerInput{Name: req.Name, Team: req.Team, Goals: *req.Goals})
	if err != nil {
		h.logger.WarnContext(ctx, "update scorer failed", "index", index, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorerUpdateToDTO(update))
}

func (h *Handler) DeleteScorer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteScorer")
	defer span.End()

	index, err := pathInt(r, "index")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	removed, err := h.scorerService.DeleteAt(ctx, index)
	if err != nil {
		h.logger.WarnContext(ctx, "delete scorer failed", "index", index, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorerDTO{Index: index, Name: removed.Name, Team: removed.Team, Goals: removed.Goals})
}

func scorerUpdateToDTO(u usecase.ScorerUpdate) scorerUpdateDTO {
	return scorerUpdateDTO{
		Scorer: scorerDTO{
			Index: u.Index,
			Name:  u.Scorer.Name,
			Team:  u.Scorer.Team,
			Goals: u.Scorer.Goals,
		},
		Created: u.Created,
	}
}

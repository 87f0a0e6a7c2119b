package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/hirewise/hirewise/pkg/response"
)

// FetchCandidates sources fresh external candidate leads for a job. Each
// trigger fully replaces the previously stored set.
func (h *Handler) FetchCandidates(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	candidates, err := h.Sourcing.FetchCandidates(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			response.NotFound(c, "job not found")
		case errors.Is(err, model.ErrNoSearchResults):
			response.NotFound(c, "no matching candidates found, try adjusting the job skills or location")
		default:
			h.Logger.Sugar().Errorw("candidate sourcing failed", "job_id", jobID, "err", err)
			response.InternalError(c, "could not fetch candidates")
		}
		return
	}
	response.OK(c, candidates)
}

// ListSourcedCandidates returns the stored sourced candidates for a job.
func (h *Handler) ListSourcedCandidates(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var filter model.CandidateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	candidates, err := h.Sourcing.ListCandidates(c.Request.Context(), jobID, filter)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		h.Logger.Sugar().Errorw("sourced candidate list failed", "job_id", jobID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, candidates)
}

// MarkCandidateContacted flags a sourced candidate as contacted.
func (h *Handler) MarkCandidateContacted(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Repo.MarkCandidateContacted(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "candidate not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	response.Message(c, "candidate marked as contacted")
}

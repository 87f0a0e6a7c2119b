package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/hirewise/hirewise/pkg/response"
)

// RankCandidates runs the résumé ranking pipeline for a job and returns the
// top matches. Synchronous: the recruiter waits for the analysis.
func (h *Handler) RankCandidates(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	topN := 0
	if raw := c.Query("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "top_n must be a number")
			return
		}
		topN = n
	}

	result, err := h.Matching.RankCandidates(c.Request.Context(), jobID, topN)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			response.NotFound(c, "job not found")
		case errors.Is(err, model.ErrNoApplications):
			response.NotFound(c, "no applications found for this job")
		case errors.Is(err, model.ErrNoneAnalyzable):
			response.ValidationError(c, "none of the submitted resumes could be analyzed")
		default:
			h.Logger.Sugar().Errorw("candidate ranking failed", "job_id", jobID, "err", err)
			response.InternalError(c, "")
		}
		return
	}
	response.OK(c, result)
}

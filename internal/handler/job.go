package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/internal/auth"
	"github.com/hirewise/hirewise/internal/cache"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/hirewise/hirewise/pkg/response"
)

// viewFlushThreshold is how many buffered redis views accumulate before they
// are folded back into the jobs table.
const viewFlushThreshold = 10

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// CreateJob creates a job posting owned by the authenticated recruiter.
func (h *Handler) CreateJob(c *gin.Context) {
	claims := h.ClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.CreateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.ApplicationDeadline.Before(time.Now()) {
		response.ValidationError(c, "application deadline must be in the future")
		return
	}

	status := req.Status
	if status == "" {
		status = model.JobStatusActive
	}

	job, err := h.Repo.CreateJob(c.Request.Context(), &model.Job{
		Title:               req.Title,
		Department:          req.Department,
		Location:            req.Location,
		EmploymentType:      req.EmploymentType,
		ExperienceLevel:     req.ExperienceLevel,
		SalaryRange:         req.SalaryRange,
		Description:         req.Description,
		Responsibilities:    req.Responsibilities,
		Requirements:        req.Requirements,
		Skills:              req.Skills,
		Benefits:            req.Benefits,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              status,
		PostedBy:            claims.RecruiterID,
		AIGenerated:         req.AIGenerated,
	})
	if err != nil {
		h.Logger.Sugar().Errorw("job create failed", "err", err)
		response.InternalError(c, "")
		return
	}
	response.Created(c, job)
}

// ListJobs returns all jobs matching the filter (recruiter view).
func (h *Handler) ListJobs(c *gin.Context) {
	var filter model.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	jobs, err := h.Repo.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Sugar().Errorw("job list failed", "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, jobs)
}

// ListPublicJobs returns active postings for the candidate-facing board.
func (h *Handler) ListPublicJobs(c *gin.Context) {
	var filter model.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	active := model.JobStatusActive
	filter.Status = &active

	jobs, err := h.Repo.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Sugar().Errorw("public job list failed", "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, jobs)
}

// GetJob returns one job (recruiter view, any status).
func (h *Handler) GetJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	job, err := h.Repo.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	response.OK(c, job)
}

// GetPublicJob returns an active job and counts the view. Views are buffered
// in redis and flushed to the row in batches off the request path.
func (h *Handler) GetPublicJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	job, err := h.Repo.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	if job.Status != model.JobStatusActive {
		response.NotFound(c, "job not found")
		return
	}

	buffered, err := cache.IncrementJobViews(ctx, h.Redis, id.String())
	if err != nil {
		h.Logger.Sugar().Warnw("view counter increment failed", "job_id", id, "err", err)
	} else {
		job.Views += int(buffered)
		if buffered >= viewFlushThreshold {
			h.Pool.Submit("flush-job-views", func(ctx context.Context) error {
				if err := h.Repo.AddJobViews(ctx, id, int(buffered)); err != nil {
					return err
				}
				return h.Redis.DecrBy(ctx, "job:views:"+id.String(), buffered).Err()
			})
		}
	}

	response.OK(c, job)
}

// ownsJob reports whether the authenticated recruiter posted the job.
func ownsJob(claims *auth.Claims, job *model.Job) bool {
	return claims != nil && job != nil && claims.RecruiterID == job.PostedBy
}

// loadOwnedJob resolves the job and verifies the caller posted it, writing the
// 403/404 response itself when the check fails.
func (h *Handler) loadOwnedJob(c *gin.Context, id uuid.UUID) (*model.Job, bool) {
	job, err := h.Repo.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return nil, false
		}
		h.Logger.Sugar().Errorw("job lookup failed", "job_id", id, "err", err)
		response.InternalError(c, "")
		return nil, false
	}
	if !ownsJob(h.ClaimsFromContext(c), job) {
		response.Forbidden(c, "you can only modify jobs you posted")
		return nil, false
	}
	return job, true
}

// UpdateJob applies a partial update. Only the posting recruiter may update.
func (h *Handler) UpdateJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.loadOwnedJob(c, id); !ok {
		return
	}

	var req model.UpdateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case model.JobStatusDraft, model.JobStatusActive, model.JobStatusClosed, model.JobStatusOnHold:
		default:
			response.ValidationError(c, "invalid job status")
			return
		}
	}

	job, err := h.Repo.UpdateJob(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		h.Logger.Sugar().Errorw("job update failed", "job_id", id, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, job)
}

// DeleteJob removes a job with its applications and sourced candidates. Only
// the posting recruiter may delete.
func (h *Handler) DeleteJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.loadOwnedJob(c, id); !ok {
		return
	}

	if err := h.Repo.DeleteJob(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		h.Logger.Sugar().Errorw("job delete failed", "job_id", id, "err", err)
		response.InternalError(c, "")
		return
	}
	response.Message(c, "job deleted successfully")
}

// JobStats returns aggregate posting statistics for the dashboard.
func (h *Handler) JobStats(c *gin.Context) {
	stats, err := h.Repo.JobStats(c.Request.Context())
	if err != nil {
		h.Logger.Sugar().Errorw("job stats failed", "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, stats)
}

// GenerateJobDescription drafts posting content with the AI provider.
func (h *Handler) GenerateJobDescription(c *gin.Context) {
	var req model.GenerateJobDescriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	prompt := fmt.Sprintf(`You are an expert HR content writer. Write a job posting for:

**Title:** %s
**Experience Level:** %s
**Department:** %s
**Location:** %s
**Employment Type:** %s
**Salary Range:** %s

**OUTPUT FORMAT (JSON ONLY):**
{
  "jobDescription": "<2-3 engaging paragraphs>",
  "responsibilities": "<5-7 bullet points, one per line>",
  "requirements": "<5-7 bullet points, one per line>",
  "skills": "<comma-separated skill list>",
  "benefits": "<4-6 bullet points, one per line>"
}

Return ONLY valid JSON.`,
		req.Title, req.ExperienceLevel, req.Department, req.Location, req.EmploymentType, req.SalaryRange)

	raw, err := h.Provider.Generate(c.Request.Context(), prompt)
	if err != nil {
		h.Logger.Sugar().Errorw("description generation failed", "title", req.Title, "err", err)
		response.InternalError(c, "could not generate job description")
		return
	}

	var content model.GeneratedJobContent
	if err := ai.DecodeJSON(raw, &content); err != nil {
		h.Logger.Sugar().Errorw("description generation returned malformed JSON", "err", err)
		response.InternalError(c, "could not generate job description")
		return
	}
	response.OK(c, content)
}

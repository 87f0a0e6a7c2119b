package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/internal/email"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/hirewise/hirewise/pkg/response"
)

// emailDataForVerdict picks the status notification for a screening outcome:
// passing candidates move to review, failing ones get the rejection notice.
func emailDataForVerdict(app *model.Application, company string, passed bool) email.TemplateData {
	status := model.ApplicationRejected
	if passed {
		status = model.ApplicationReviewing
	}
	return email.TemplateData{
		Status:        status,
		CandidateName: app.FullName(),
		JobTitle:      app.Job.Title,
		CompanyName:   company,
	}
}

// respondInterviewErr maps interview state machine errors to HTTP conditions.
// Unknown tokens are a plain 404 so the endpoint leaks nothing about which
// tokens exist.
func (h *Handler) respondInterviewErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "interview not found")
	case errors.Is(err, model.ErrInterviewNotReady):
		response.NotReady(c, "your interview is being prepared, please try again in a moment")
	case errors.Is(err, model.ErrInterviewExpired):
		response.Gone(c, "the interview deadline has passed")
	case errors.Is(err, model.ErrInterviewCompleted):
		response.Conflict(c, "this interview has already been submitted")
	case errors.Is(err, model.ErrTooFewAnswers):
		response.ValidationError(c, "please answer at least 2 questions")
	default:
		h.Logger.Sugar().Errorw("interview request failed", "err", err)
		response.InternalError(c, "")
	}
}

// GetInterview serves the candidate's interview by token. A first access
// while pending starts the attempt; completed interviews return the result.
func (h *Handler) GetInterview(c *gin.Context) {
	token := c.Param("token")

	view, result, err := h.Interviews.Access(c.Request.Context(), token)
	if err != nil {
		h.respondInterviewErr(c, err)
		return
	}
	if result != nil {
		response.OK(c, result)
		return
	}
	response.OK(c, view)
}

// SubmitInterview scores the submitted answers and returns the verdict.
func (h *Handler) SubmitInterview(c *gin.Context) {
	token := c.Param("token")

	var req model.SubmitInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, result, err := h.Interviews.Submit(c.Request.Context(), token, req.Answers)
	if err != nil {
		h.respondInterviewErr(c, err)
		return
	}

	// Both verdicts notify the candidate: passers that they moved to review,
	// the rest that the process ends here.
	if app.Job != nil {
		data := emailDataForVerdict(app, h.Cfg.App.CompanyName, result.Passed)
		to := app.Email
		h.Pool.Submit("screening-result-email", func(ctx context.Context) error {
			return h.Email.SendStatus(to, data)
		})
	}

	response.OK(c, result)
}

// GetInterviewStatus returns compact progress for a token without mutating
// state, for the frontend's polling while questions generate.
func (h *Handler) GetInterviewStatus(c *gin.Context) {
	token := c.Param("token")

	result, err := h.Interviews.Status(c.Request.Context(), token)
	if err != nil {
		h.respondInterviewErr(c, err)
		return
	}
	response.OK(c, result)
}

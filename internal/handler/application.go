package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/internal/email"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/hirewise/hirewise/pkg/response"
)

const maxResumeSize = 5 << 20 // 5 MB

var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

func resumeTypeFromName(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(name), ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(strings.ToLower(name), ".doc"):
		return "application/msword"
	}
	return ""
}

func (h *Handler) interviewLink(token string) string {
	return fmt.Sprintf("%s/interview/%s", strings.TrimRight(h.Cfg.App.FrontendURL, "/"), token)
}

// SubmitApplication is the public application endpoint: multipart form with
// the résumé file. The response returns as soon as the row exists; question
// generation and the confirmation email happen in the background.
func (h *Handler) SubmitApplication(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.SubmitApplicationReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	job, err := h.Repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	if job.Status != model.JobStatusActive {
		response.ValidationError(c, "this job is no longer accepting applications")
		return
	}
	if job.DeadlinePassed(time.Now()) {
		response.ValidationError(c, "the application deadline for this job has passed")
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		response.BadRequest(c, "resume file is required")
		return
	}
	if fileHeader.Size > maxResumeSize {
		response.ValidationError(c, "resume must be 5MB or smaller")
		return
	}

	fileType := fileHeader.Header.Get("Content-Type")
	if !allowedResumeTypes[fileType] {
		fileType = resumeTypeFromName(fileHeader.Filename)
	}
	if !allowedResumeTypes[fileType] {
		response.ValidationError(c, "resume must be a PDF, DOC or DOCX file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not read resume file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "could not read resume file")
		return
	}

	uploaded, err := h.Storage.Upload(ctx, data, fileHeader.Filename)
	if err != nil {
		h.Logger.Sugar().Errorw("resume upload failed", "job_id", jobID, "err", err)
		response.InternalError(c, "could not store resume")
		return
	}

	iv, err := h.Interviews.IssueInterview()
	if err != nil {
		h.Logger.Sugar().Errorw("interview issuance failed", "job_id", jobID, "err", err)
		response.InternalError(c, "")
		return
	}

	app, err := h.Repo.CreateApplication(ctx, &model.Application{
		JobID:     jobID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Resume: model.ResumeFile{
			FileName:   fileHeader.Filename,
			FileURL:    uploaded.SecureURL,
			PublicID:   uploaded.PublicID,
			FileSize:   fileHeader.Size,
			FileType:   fileType,
			UploadedAt: time.Now(),
		},
		CoverLetter:       req.CoverLetter,
		LinkedinURL:       req.LinkedinURL,
		PortfolioURL:      req.PortfolioURL,
		CurrentCompany:    req.CurrentCompany,
		YearsOfExperience: req.YearsOfExperience,
		ExpectedSalary:    req.ExpectedSalary,
		NoticePeriod:      req.NoticePeriod,
		Status:            model.ApplicationPending,
		Interview:         iv,
	})
	if err != nil {
		// The asset is already uploaded; clean it up best effort.
		if derr := h.Storage.Delete(ctx, uploaded.PublicID); derr != nil {
			h.Logger.Sugar().Warnw("orphaned resume cleanup failed", "public_id", uploaded.PublicID, "err", derr)
		}
		if errors.Is(err, model.ErrDuplicateApplication) {
			response.Conflict(c, "you have already applied for this job")
			return
		}
		h.Logger.Sugar().Errorw("application create failed", "job_id", jobID, "err", err)
		response.InternalError(c, "")
		return
	}

	h.Pool.Submit("prepare-interview", func(ctx context.Context) error {
		return h.prepareInterview(ctx, app, job)
	})

	response.Created(c, app)
}

// prepareInterview is the background half of submission: generate questions,
// attach them, then send the confirmation email. If attaching fails the
// candidate still gets a confirmation, just without an interview link.
func (h *Handler) prepareInterview(ctx context.Context, app *model.Application, job *model.Job) error {
	data := email.TemplateData{
		Status:        email.StatusReceived,
		CandidateName: app.FullName(),
		JobTitle:      job.Title,
		CompanyName:   h.Cfg.App.CompanyName,
	}

	iv, err := h.Interviews.GenerateAndAttach(ctx, app, job)
	if err != nil {
		h.Logger.Sugar().Errorw("interview preparation failed, sending confirmation without link",
			"application_id", app.ID, "err", err)
	} else {
		data.InterviewLink = h.interviewLink(iv.Token)
		data.Deadline = iv.Deadline
	}

	if err := h.Email.SendStatus(app.Email, data); err != nil {
		h.Logger.Sugar().Warnw("confirmation email failed", "application_id", app.ID, "err", err)
	}
	return nil
}

// ListApplications returns applications for the recruiter dashboard.
func (h *Handler) ListApplications(c *gin.Context) {
	var filter model.ApplicationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	apps, total, err := h.Repo.ListApplications(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Sugar().Errorw("application list failed", "err", err)
		response.InternalError(c, "")
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	response.OKWithMeta(c, apps, &response.Meta{
		Page:     page,
		PageSize: limit,
		Total:    total,
		HasNext:  page*limit < total,
	})
}

// GetApplication returns one application with its interview document.
func (h *Handler) GetApplication(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	app, err := h.Repo.GetApplication(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "application not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	response.OK(c, app)
}

// UpdateApplicationStatus transitions the pipeline status and notifies the
// candidate when a template exists for the new status.
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateApplicationStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !req.Status.Valid() {
		response.ValidationError(c, "invalid application status")
		return
	}

	ctx := c.Request.Context()
	app, err := h.Repo.UpdateApplicationStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "application not found")
			return
		}
		h.Logger.Sugar().Errorw("status update failed", "application_id", id, "err", err)
		response.InternalError(c, "")
		return
	}

	if email.HasTemplate(req.Status) {
		job, jerr := h.Repo.GetJob(ctx, app.JobID)
		if jerr == nil {
			data := email.TemplateData{
				Status:        req.Status,
				CandidateName: app.FullName(),
				JobTitle:      job.Title,
				CompanyName:   h.Cfg.App.CompanyName,
				Message:       req.Message,
			}
			to := app.Email
			h.Pool.Submit("status-email", func(ctx context.Context) error {
				return h.Email.SendStatus(to, data)
			})
		}
	}

	response.OK(c, app)
}

// AddApplicationNote appends a recruiter note.
func (h *Handler) AddApplicationNote(c *gin.Context) {
	claims := h.ClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.AddNoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.Repo.AddNote(c.Request.Context(), id, model.Note{
		Content: req.Content,
		AddedBy: claims.RecruiterID,
		AddedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "application not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	response.OK(c, app)
}

// RateApplication sets the recruiter's 1-5 star rating.
func (h *Handler) RateApplication(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.RateApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.Repo.RateApplication(c.Request.Context(), id, req.Rating)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "application not found")
			return
		}
		response.InternalError(c, "")
		return
	}
	response.OK(c, app)
}

// DeleteApplication removes the application and its stored résumé.
func (h *Handler) DeleteApplication(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	app, err := h.Repo.DeleteApplication(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "application not found")
			return
		}
		h.Logger.Sugar().Errorw("application delete failed", "application_id", id, "err", err)
		response.InternalError(c, "")
		return
	}

	if app.Resume.PublicID != "" {
		publicID := app.Resume.PublicID
		h.Pool.Submit("delete-resume", func(ctx context.Context) error {
			return h.Storage.Delete(ctx, publicID)
		})
	}

	response.Message(c, "application deleted successfully")
}

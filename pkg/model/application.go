package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending            ApplicationStatus = "pending"
	ApplicationReviewing          ApplicationStatus = "reviewing"
	ApplicationShortlisted        ApplicationStatus = "shortlisted"
	ApplicationInterviewScheduled ApplicationStatus = "interview-scheduled"
	ApplicationRejected           ApplicationStatus = "rejected"
	ApplicationHired              ApplicationStatus = "hired"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewing, ApplicationShortlisted,
		ApplicationInterviewScheduled, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// ResumeFile describes the uploaded résumé stored in object storage.
type ResumeFile struct {
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	PublicID   string    `json:"public_id"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Note is an append-only recruiter note attributed to its author.
type Note struct {
	Content string    `json:"content"`
	AddedBy uuid.UUID `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

type Application struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	JobID             uuid.UUID         `json:"job_id" db:"job_id"`
	FirstName         string            `json:"first_name" db:"first_name"`
	LastName          string            `json:"last_name" db:"last_name"`
	Email             string            `json:"email" db:"email"`
	Phone             string            `json:"phone" db:"phone"`
	Resume            ResumeFile        `json:"resume" db:"resume"`
	CoverLetter       string            `json:"cover_letter,omitempty" db:"cover_letter"`
	LinkedinURL       string            `json:"linkedin_url,omitempty" db:"linkedin_url"`
	PortfolioURL      string            `json:"portfolio_url,omitempty" db:"portfolio_url"`
	CurrentCompany    string            `json:"current_company,omitempty" db:"current_company"`
	YearsOfExperience *int              `json:"years_of_experience,omitempty" db:"years_of_experience"`
	ExpectedSalary    string            `json:"expected_salary,omitempty" db:"expected_salary"`
	NoticePeriod      string            `json:"notice_period,omitempty" db:"notice_period"`
	Status            ApplicationStatus `json:"status" db:"status"`
	Rating            *int              `json:"rating,omitempty" db:"rating"`
	Notes             []Note            `json:"notes,omitempty" db:"notes"`
	Interview         *Interview        `json:"interview,omitempty" db:"interview"`
	AppliedAt         time.Time         `json:"applied_at" db:"applied_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`

	// Job is populated on queries that join the owning job.
	Job *Job `json:"job,omitempty" db:"-"`
}

func (a *Application) FullName() string {
	return a.FirstName + " " + a.LastName
}

type SubmitApplicationReq struct {
	FirstName         string `form:"first_name" binding:"required"`
	LastName          string `form:"last_name" binding:"required"`
	Email             string `form:"email" binding:"required,email"`
	Phone             string `form:"phone" binding:"required"`
	CoverLetter       string `form:"cover_letter"`
	LinkedinURL       string `form:"linkedin_url"`
	PortfolioURL      string `form:"portfolio_url"`
	CurrentCompany    string `form:"current_company"`
	YearsOfExperience *int   `form:"years_of_experience"`
	ExpectedSalary    string `form:"expected_salary"`
	NoticePeriod      string `form:"notice_period"`
}

type ApplicationFilter struct {
	Status *ApplicationStatus `form:"status"`
	JobID  *uuid.UUID         `form:"job_id"`
	Page   int                `form:"page,default=1"`
	Limit  int                `form:"limit,default=20"`
}

type UpdateApplicationStatusReq struct {
	Status  ApplicationStatus `json:"status" binding:"required"`
	Message string            `json:"message"`
}

type AddNoteReq struct {
	Content string `json:"content" binding:"required"`
}

type RateApplicationReq struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

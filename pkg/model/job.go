package model

import (
	"time"

	"github.com/google/uuid"
)

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry-level"
	ExperienceMid       ExperienceLevel = "mid-level"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusOnHold JobStatus = "on-hold"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentTemporary  EmploymentType = "temporary"
)

type Job struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	Title               string          `json:"title" db:"title"`
	Department          string          `json:"department" db:"department"`
	Location            string          `json:"location" db:"location"`
	EmploymentType      EmploymentType  `json:"employment_type" db:"employment_type"`
	ExperienceLevel     ExperienceLevel `json:"experience_level" db:"experience_level"`
	SalaryRange         string          `json:"salary_range" db:"salary_range"`
	Description         string          `json:"description" db:"description"`
	Responsibilities    string          `json:"responsibilities" db:"responsibilities"`
	Requirements        string          `json:"requirements" db:"requirements"`
	Skills              string          `json:"skills" db:"skills"` // comma-separated
	Benefits            string          `json:"benefits" db:"benefits"`
	ApplicationDeadline time.Time       `json:"application_deadline" db:"application_deadline"`
	Status              JobStatus       `json:"status" db:"status"`
	PostedBy            uuid.UUID       `json:"posted_by" db:"posted_by"`
	Views               int             `json:"views" db:"views"`
	Applications        int             `json:"applications" db:"applications"`
	AIGenerated         bool            `json:"ai_generated" db:"ai_generated"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

func (j *Job) DeadlinePassed(now time.Time) bool {
	return now.After(j.ApplicationDeadline)
}

type CreateJobReq struct {
	Title               string          `json:"title" binding:"required"`
	Department          string          `json:"department" binding:"required"`
	Location            string          `json:"location" binding:"required"`
	EmploymentType      EmploymentType  `json:"employment_type" binding:"required"`
	ExperienceLevel     ExperienceLevel `json:"experience_level" binding:"required"`
	SalaryRange         string          `json:"salary_range" binding:"required"`
	Description         string          `json:"description" binding:"required"`
	Responsibilities    string          `json:"responsibilities" binding:"required"`
	Requirements        string          `json:"requirements" binding:"required"`
	Skills              string          `json:"skills" binding:"required"`
	Benefits            string          `json:"benefits"`
	ApplicationDeadline time.Time       `json:"application_deadline" binding:"required"`
	Status              JobStatus       `json:"status"`
	AIGenerated         bool            `json:"ai_generated"`
}

type UpdateJobReq struct {
	Title               *string          `json:"title,omitempty"`
	Department          *string          `json:"department,omitempty"`
	Location            *string          `json:"location,omitempty"`
	EmploymentType      *EmploymentType  `json:"employment_type,omitempty"`
	ExperienceLevel     *ExperienceLevel `json:"experience_level,omitempty"`
	SalaryRange         *string          `json:"salary_range,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Responsibilities    *string          `json:"responsibilities,omitempty"`
	Requirements        *string          `json:"requirements,omitempty"`
	Skills              *string          `json:"skills,omitempty"`
	Benefits            *string          `json:"benefits,omitempty"`
	ApplicationDeadline *time.Time       `json:"application_deadline,omitempty"`
	Status              *JobStatus       `json:"status,omitempty"`
}

type JobFilter struct {
	Status     *JobStatus `form:"status"`
	Department *string    `form:"department"`
	Location   *string    `form:"location"`
	Search     *string    `form:"search"`
}

type JobStats struct {
	TotalJobs         int `json:"total_jobs"`
	ActiveJobs        int `json:"active_jobs"`
	TotalViews        int `json:"total_views"`
	TotalApplications int `json:"total_applications"`
}

// GeneratedJobContent is the schema the AI provider must return for the
// job-description generation endpoint.
type GeneratedJobContent struct {
	Description      string `json:"jobDescription"`
	Responsibilities string `json:"responsibilities"`
	Requirements     string `json:"requirements"`
	Skills           string `json:"skills"`
	Benefits         string `json:"benefits"`
}

type GenerateJobDescriptionReq struct {
	Title               string          `json:"title" binding:"required"`
	ExperienceLevel     ExperienceLevel `json:"experience_level" binding:"required"`
	Department          string          `json:"department"`
	Location            string          `json:"location"`
	EmploymentType      EmploymentType  `json:"employment_type"`
	SalaryRange         string          `json:"salary_range"`
	ApplicationDeadline string          `json:"application_deadline"`
}

package model

import "errors"

// Domain errors shared across services and handlers. Handlers map these to
// HTTP conditions; services never return raw pg errors to callers.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrDuplicateApplication = errors.New("application already exists for this job and email")
	ErrInterviewExpired     = errors.New("interview deadline has passed")
	ErrInterviewCompleted   = errors.New("interview already submitted")
	ErrInterviewNotReady    = errors.New("interview not yet generated")
	ErrTooFewAnswers        = errors.New("minimum 2 answers required")
	ErrNoApplications       = errors.New("no applications found for this job")
	ErrNoneAnalyzable       = errors.New("no candidates could be analyzed")
	ErrNoSearchResults      = errors.New("no candidates found")
)

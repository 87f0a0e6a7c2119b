package model

import (
	"time"

	"github.com/google/uuid"
)

type CandidateSource string

const (
	SourceGitHub CandidateSource = "github"
)

// GitHubStats holds public activity statistics for a sourced profile.
type GitHubStats struct {
	PublicRepos  int      `json:"public_repos"`
	Followers    int      `json:"followers"`
	Repositories int      `json:"repositories"`
	TopLanguages []string `json:"top_languages,omitempty"`
}

// AutoFetchedCandidate is an externally sourced lead scoped to one job. The
// set for a job is bulk-replaced on every fetch trigger; there is no
// incremental merge.
type AutoFetchedCandidate struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	JobID          uuid.UUID       `json:"job_id" db:"job_id"`
	Source         CandidateSource `json:"source" db:"source"`
	SourceID       string          `json:"source_id" db:"source_id"`
	SourceURL      string          `json:"source_url" db:"source_url"`
	Name           string          `json:"name" db:"name"`
	Email          string          `json:"email,omitempty" db:"email"`
	Location       string          `json:"location,omitempty" db:"location"`
	Bio            string          `json:"bio,omitempty" db:"bio"`
	CurrentCompany string          `json:"current_company,omitempty" db:"current_company"`
	Skills         []string        `json:"skills" db:"skills"`
	PortfolioURL   string          `json:"portfolio_url,omitempty" db:"portfolio_url"`
	GitHubStats    GitHubStats     `json:"github_stats" db:"github_stats"`
	AIScore        int             `json:"ai_score" db:"ai_score"` // 0-100
	MatchAnalysis  string          `json:"match_analysis" db:"match_analysis"`
	Strengths      []string        `json:"strengths,omitempty" db:"strengths"`
	Concerns       []string        `json:"concerns,omitempty" db:"concerns"`
	Contacted      bool            `json:"contacted" db:"contacted"`
	OutreachSent   bool            `json:"outreach_sent" db:"outreach_sent"`
	FetchedAt      time.Time       `json:"fetched_at" db:"fetched_at"`
}

type CandidateListFilter struct {
	MinScore int `form:"min_score,default=0"`
	Limit    int `form:"limit,default=100"`
}

// MatchAnalysis is the structured rubric result for a résumé-ranked
// application (skills 50%, experience 25%, requirements 15%, relevance 10%).
type MatchAnalysis struct {
	MatchScore        int      `json:"matchScore"`
	OverallAssessment string   `json:"overallAssessment"`
	Strengths         []string `json:"strengths"`
	SkillsMatched     []string `json:"skillsMatched"`
	SkillsMissing     []string `json:"skillsMissing"`
	ExperienceMatch   string   `json:"experienceMatch"`
	KeyHighlights     []string `json:"keyHighlights"`
	Concerns          []string `json:"concerns"`
	Recommendation    string   `json:"recommendation"`
	Reasoning         string   `json:"reasoning"`
}

// RankedCandidate is one entry in a top-N ranking result.
type RankedCandidate struct {
	ApplicationID uuid.UUID     `json:"application_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Company       string        `json:"company,omitempty"`
	Experience    *int          `json:"years_of_experience,omitempty"`
	AppliedAt     time.Time     `json:"applied_at"`
	Analysis      MatchAnalysis `json:"analysis"`
}

type RankingResult struct {
	JobID      uuid.UUID         `json:"job_id"`
	JobTitle   string            `json:"job_title"`
	Candidates []RankedCandidate `json:"candidates"`
	Analyzed   int               `json:"analyzed"`
	Failed     int               `json:"failed"`
}

package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/pkg/model"
	"go.uber.org/zap"
)

// ResumeFetcher downloads the stored résumé bytes for an application.
type ResumeFetcher interface {
	DownloadResume(ctx context.Context, fileURL, publicID string) ([]byte, error)
}

// JobGetter loads a job by id.
type JobGetter interface {
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
}

// ApplicationLister loads every application for a job.
type ApplicationLister interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
}

// Service ranks a job's applicant pool by résumé fit. Applications are
// analyzed sequentially: résumé analysis is the slow path anyway, and serial
// calls keep the provider well inside rate limits.
type Service struct {
	provider ai.Provider
	storage  ResumeFetcher
	jobs     JobGetter
	apps     ApplicationLister
	log      *zap.Logger
}

func NewService(provider ai.Provider, storage ResumeFetcher, jobs JobGetter, apps ApplicationLister, log *zap.Logger) *Service {
	return &Service{
		provider: provider,
		storage:  storage,
		jobs:     jobs,
		apps:     apps,
		log:      log,
	}
}

const (
	defaultTopN = 3
	maxTopN     = 10
)

func buildRubricPrompt(job *model.Job, resumeText string) string {
	if len(resumeText) > 4000 {
		resumeText = resumeText[:4000]
	}
	return fmt.Sprintf(`You are an expert technical recruiter. Analyze this candidate's resume against the job requirements:

**JOB DETAILS:**
- Title: %s
- Experience Level: %s
- Required Skills: %s
- Requirements: %s
- Description: %s

**CANDIDATE RESUME:**
%s

**SCORING RUBRIC (total 100):**
- Skills match: 50 points
- Experience level fit: 25 points
- Requirements coverage: 15 points
- Overall relevance: 10 points

**OUTPUT FORMAT (JSON ONLY):**
{
  "matchScore": <number 0-100>,
  "overallAssessment": "<2-3 sentence summary>",
  "strengths": ["<strength>"],
  "skillsMatched": ["<skill>"],
  "skillsMissing": ["<skill>"],
  "experienceMatch": "<under-qualified | meets | exceeds>",
  "keyHighlights": ["<highlight>"],
  "concerns": ["<concern>"],
  "recommendation": "<strong-yes | yes | maybe | no>",
  "reasoning": "<1-2 sentences>"
}

Return ONLY valid JSON.`,
		job.Title, job.ExperienceLevel, job.Skills, job.Requirements, job.Description,
		resumeText)
}

// fallbackAnalysis is the neutral result used when the provider call or parse
// fails for an otherwise readable résumé. The application still ranks, at a
// middling score, instead of silently vanishing from the result.
func fallbackAnalysis() model.MatchAnalysis {
	return model.MatchAnalysis{
		MatchScore:        50,
		OverallAssessment: "Automated analysis unavailable. Manual review required.",
		ExperienceMatch:   "unknown",
		Recommendation:    "maybe",
		Reasoning:         "The resume could not be analyzed automatically.",
	}
}

func clampMatchScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// analyzeApplication produces a MatchAnalysis for one application, or an
// error when the résumé itself is unusable (download failure, unsupported
// type, too little text). Provider failures degrade to fallbackAnalysis.
func (s *Service) analyzeApplication(ctx context.Context, job *model.Job, app *model.Application) (model.MatchAnalysis, error) {
	data, err := s.storage.DownloadResume(ctx, app.Resume.FileURL, app.Resume.PublicID)
	if err != nil {
		return model.MatchAnalysis{}, fmt.Errorf("download resume: %w", err)
	}

	text, err := ExtractText(data, app.Resume.FileType)
	if err != nil {
		return model.MatchAnalysis{}, err
	}
	if len(text) < minResumeChars {
		return model.MatchAnalysis{}, fmt.Errorf("resume text too short (%d chars)", len(text))
	}

	raw, err := s.provider.Generate(ctx, buildRubricPrompt(job, text))
	if err != nil {
		s.log.Warn("resume analysis call failed, using fallback",
			zap.String("application_id", app.ID.String()), zap.Error(err))
		return fallbackAnalysis(), nil
	}

	var analysis model.MatchAnalysis
	if err := ai.DecodeJSON(raw, &analysis); err != nil {
		s.log.Warn("resume analysis returned malformed JSON, using fallback",
			zap.String("application_id", app.ID.String()), zap.Error(err))
		return fallbackAnalysis(), nil
	}
	analysis.MatchScore = clampMatchScore(analysis.MatchScore)
	return analysis, nil
}

// RankCandidates analyzes every application for the job and returns the top
// N by match score. topN is clamped to 1..10 and defaults to 3.
func (s *Service) RankCandidates(ctx context.Context, jobID uuid.UUID, topN int) (*model.RankingResult, error) {
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, model.ErrNoApplications
	}

	ranked := make([]model.RankedCandidate, 0, len(apps))
	failed := 0
	for i := range apps {
		app := &apps[i]
		analysis, err := s.analyzeApplication(ctx, job, app)
		if err != nil {
			failed++
			s.log.Warn("skipping unanalyzable application",
				zap.String("application_id", app.ID.String()), zap.Error(err))
			continue
		}
		ranked = append(ranked, model.RankedCandidate{
			ApplicationID: app.ID,
			Name:          app.FullName(),
			Email:         app.Email,
			Phone:         app.Phone,
			Company:       app.CurrentCompany,
			Experience:    app.YearsOfExperience,
			AppliedAt:     app.AppliedAt,
			Analysis:      analysis,
		})
	}

	if len(ranked) == 0 {
		return nil, model.ErrNoneAnalyzable
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Analysis.MatchScore > ranked[j].Analysis.MatchScore
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return &model.RankingResult{
		JobID:      jobID,
		JobTitle:   job.Title,
		Candidates: ranked,
		Analyzed:   len(apps) - failed,
		Failed:     failed,
	}, nil
}

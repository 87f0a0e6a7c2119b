package sourcing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/internal/github"
	"github.com/hirewise/hirewise/pkg/model"
	"go.uber.org/zap"
)

const (
	searchPerPage = 30
	enrichLimit   = 20
	repoSample    = 10
	maxSkillTerms = 3
)

// Searcher is the slice of the GitHub client sourcing needs.
type Searcher interface {
	SearchUsers(ctx context.Context, query string, perPage int) ([]github.User, error)
	UserDetail(ctx context.Context, login string) (*github.UserDetail, error)
	UserRepos(ctx context.Context, login string, perPage int) ([]github.Repo, error)
}

// CandidateStore persists sourced candidates. ReplaceForJob is a full refresh
// for one (job, source) pair inside a transaction.
type CandidateStore interface {
	ReplaceForJob(ctx context.Context, jobID uuid.UUID, source model.CandidateSource, candidates []model.AutoFetchedCandidate) error
	ListCandidatesByJob(ctx context.Context, jobID uuid.UUID, filter model.CandidateListFilter) ([]model.AutoFetchedCandidate, error)
}

// JobGetter loads a job by id.
type JobGetter interface {
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
}

// Service sources external candidate leads for a job from GitHub's public
// profile search and scores them against the job with the AI provider.
type Service struct {
	gh       Searcher
	provider ai.Provider
	jobs     JobGetter
	cand     CandidateStore
	log      *zap.Logger
	now      func() time.Time
}

func NewService(gh Searcher, provider ai.Provider, jobs JobGetter, cand CandidateStore, log *zap.Logger) *Service {
	return &Service{
		gh:       gh,
		provider: provider,
		jobs:     jobs,
		cand:     cand,
		log:      log,
		now:      time.Now,
	}
}

// BuildQuery derives the GitHub user-search query from a job: up to 3 cleaned
// skill terms plus a location qualifier, falling back to the job title when
// no skills survive cleaning.
func BuildQuery(job *model.Job) string {
	terms := make([]string, 0, maxSkillTerms)
	for _, raw := range strings.Split(job.Skills, ",") {
		skill := cleanSkill(raw)
		if skill == "" {
			continue
		}
		terms = append(terms, skill)
		if len(terms) == maxSkillTerms {
			break
		}
	}
	if len(terms) == 0 {
		terms = append(terms, strings.TrimSpace(job.Title))
	}

	query := strings.Join(terms, " ")
	if loc := strings.TrimSpace(job.Location); loc != "" && !strings.EqualFold(loc, "remote") {
		// Only the first location token goes into the qualifier; GitHub
		// matches location as free text anyway.
		city := strings.TrimSpace(strings.Split(loc, ",")[0])
		query = fmt.Sprintf("location:%s %s", strings.ReplaceAll(city, " ", ""), query)
	}
	return query
}

func cleanSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#', r == '.':
			return r
		}
		return -1
	}, s)
	if len(s) < 2 {
		return ""
	}
	return s
}

// FetchCandidates searches GitHub for matching profiles, enriches the top
// results with full profile and repository data, and full-refreshes the
// stored candidate set for the job.
func (s *Service) FetchCandidates(ctx context.Context, jobID uuid.UUID) ([]model.AutoFetchedCandidate, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	query := BuildQuery(job)
	s.log.Info("sourcing candidates from github",
		zap.String("job_id", jobID.String()),
		zap.String("query", query),
	)

	users, err := s.gh.SearchUsers(ctx, query, searchPerPage)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, model.ErrNoSearchResults
	}
	if len(users) > enrichLimit {
		users = users[:enrichLimit]
	}

	fetchedAt := s.now()
	candidates := make([]model.AutoFetchedCandidate, 0, len(users))
	for _, u := range users {
		detail, err := s.gh.UserDetail(ctx, u.Login)
		if err != nil {
			s.log.Warn("skipping profile, detail fetch failed",
				zap.String("login", u.Login), zap.Error(err))
			continue
		}

		langs, repoCount := s.topLanguages(ctx, u.Login)

		name := detail.Name
		if name == "" {
			name = detail.Login
		}

		c := model.AutoFetchedCandidate{
			JobID:          jobID,
			Source:         model.SourceGitHub,
			SourceID:       detail.Login,
			SourceURL:      detail.HTMLURL,
			Name:           name,
			Email:          detail.Email,
			Location:       detail.Location,
			Bio:            detail.Bio,
			CurrentCompany: strings.TrimPrefix(detail.Company, "@"),
			Skills:         langs,
			PortfolioURL:   detail.Blog,
			GitHubStats: model.GitHubStats{
				PublicRepos:  detail.PublicRepos,
				Followers:    detail.Followers,
				Repositories: repoCount,
				TopLanguages: langs,
			},
			FetchedAt: fetchedAt,
		}
		c.AIScore, c.MatchAnalysis, c.Strengths, c.Concerns = s.scoreProfile(ctx, job, &c)
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, model.ErrNoSearchResults
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AIScore > candidates[j].AIScore
	})

	if err := s.cand.ReplaceForJob(ctx, jobID, model.SourceGitHub, candidates); err != nil {
		return nil, fmt.Errorf("store sourced candidates: %w", err)
	}
	return candidates, nil
}

// topLanguages samples recent repositories and returns distinct languages in
// frequency order. Repo fetch failures degrade to an empty list.
func (s *Service) topLanguages(ctx context.Context, login string) ([]string, int) {
	repos, err := s.gh.UserRepos(ctx, login, repoSample)
	if err != nil {
		s.log.Warn("repo listing failed", zap.String("login", login), zap.Error(err))
		return nil, 0
	}

	counts := map[string]int{}
	order := []string{}
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if counts[r.Language] == 0 {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 5 {
		order = order[:5]
	}
	return order, len(repos)
}

func buildProfilePrompt(job *model.Job, c *model.AutoFetchedCandidate) string {
	return fmt.Sprintf(`You are an expert technical recruiter. Evaluate this developer profile as a lead for the job below:

**JOB DETAILS:**
- Title: %s
- Experience Level: %s
- Required Skills: %s
- Location: %s

**DEVELOPER PROFILE:**
- Name: %s
- Bio: %s
- Location: %s
- Company: %s
- Public repositories: %d
- Followers: %d
- Top languages: %s

**SCORING RUBRIC (total 100):**
- Skills match: 50 points
- Experience signals (activity, following): 25 points
- Requirements coverage: 15 points
- Overall relevance: 10 points

**OUTPUT FORMAT (JSON ONLY):**
{
  "matchScore": <number 0-100>,
  "matchAnalysis": "<2-3 sentence assessment>",
  "strengths": ["<strength>"],
  "concerns": ["<concern>"]
}

Return ONLY valid JSON.`,
		job.Title, job.ExperienceLevel, job.Skills, job.Location,
		c.Name, c.Bio, c.Location, c.CurrentCompany,
		c.GitHubStats.PublicRepos, c.GitHubStats.Followers,
		strings.Join(c.GitHubStats.TopLanguages, ", "))
}

type profileScore struct {
	MatchScore    int      `json:"matchScore"`
	MatchAnalysis string   `json:"matchAnalysis"`
	Strengths     []string `json:"strengths"`
	Concerns      []string `json:"concerns"`
}

func clampProfileScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// scoreProfile asks the provider to grade the profile against the job's
// rubric. A failed call or unparseable response degrades to the deterministic
// signal-based rubric so a model outage never empties a fetch.
func (s *Service) scoreProfile(ctx context.Context, job *model.Job, c *model.AutoFetchedCandidate) (int, string, []string, []string) {
	raw, err := s.provider.Generate(ctx, buildProfilePrompt(job, c))
	if err == nil {
		var ps profileScore
		derr := ai.DecodeJSON(raw, &ps)
		if derr == nil {
			return clampProfileScore(ps.MatchScore), ps.MatchAnalysis, ps.Strengths, ps.Concerns
		}
		err = fmt.Errorf("parse profile score: %w", derr)
	}
	s.log.Warn("profile scoring via provider failed, using signal rubric",
		zap.String("login", c.SourceID), zap.Error(err))
	return heuristicProfileScore(job, c)
}

// heuristicProfileScore computes a deterministic 0-100 lead score from
// profile signals against the job's skills. Fallback path only.
func heuristicProfileScore(job *model.Job, c *model.AutoFetchedCandidate) (int, string, []string, []string) {
	score := 0
	var strengths, concerns []string

	wanted := map[string]bool{}
	for _, raw := range strings.Split(job.Skills, ",") {
		if s := cleanSkill(raw); s != "" {
			wanted[s] = true
		}
	}

	matched := []string{}
	for _, lang := range c.GitHubStats.TopLanguages {
		if wanted[strings.ToLower(lang)] {
			matched = append(matched, lang)
		}
	}
	// Skills overlap dominates: 15 points per matched language, capped at 45.
	skillPts := len(matched) * 15
	if skillPts > 45 {
		skillPts = 45
	}
	score += skillPts
	if len(matched) > 0 {
		strengths = append(strengths, fmt.Sprintf("Works with %s", strings.Join(matched, ", ")))
	} else {
		concerns = append(concerns, "No required skills visible in recent repositories")
	}

	switch f := c.GitHubStats.Followers; {
	case f >= 500:
		score += 25
		strengths = append(strengths, "Strong community following")
	case f >= 100:
		score += 18
	case f >= 20:
		score += 10
	default:
		score += 3
	}

	switch r := c.GitHubStats.PublicRepos; {
	case r >= 50:
		score += 15
		strengths = append(strengths, "Very active open-source contributor")
	case r >= 10:
		score += 10
	case r > 0:
		score += 5
	default:
		concerns = append(concerns, "No public repositories")
	}

	if c.Bio != "" {
		score += 5
	}
	if c.Email != "" {
		score += 5
		strengths = append(strengths, "Public contact email available")
	} else {
		concerns = append(concerns, "No public email, outreach must go through GitHub")
	}
	if c.Location != "" {
		score += 5
	}

	if score > 100 {
		score = 100
	}

	analysis := fmt.Sprintf("Matched %d of %d required skills from recent repository activity. %d followers, %d public repositories.",
		len(matched), len(wanted), c.GitHubStats.Followers, c.GitHubStats.PublicRepos)
	return score, analysis, strengths, concerns
}

// ListCandidates returns the stored sourced candidates for a job.
func (s *Service) ListCandidates(ctx context.Context, jobID uuid.UUID, filter model.CandidateListFilter) ([]model.AutoFetchedCandidate, error) {
	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.cand.ListCandidatesByJob(ctx, jobID, filter)
}

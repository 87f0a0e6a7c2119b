package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/pkg"
	"github.com/hirewise/hirewise/pkg/model"
	"go.uber.org/zap"
)

// Store is the persistence surface the interview workflow needs. The
// interview document and the owning application's status are always written
// in a single update so the dual-field transition cannot half-apply.
type Store interface {
	GetByInterviewToken(ctx context.Context, token string) (*model.Application, error)
	UpdateInterview(ctx context.Context, appID uuid.UUID, iv *model.Interview, status model.ApplicationStatus) error
}

type Service struct {
	provider    ai.Provider
	store       Store
	log         *zap.Logger
	deadlineTTL time.Duration

	// now is swappable in tests.
	now func() time.Time
}

func NewService(provider ai.Provider, store Store, log *zap.Logger, deadlineTTL time.Duration) *Service {
	return &Service{
		provider:    provider,
		store:       store,
		log:         log,
		deadlineTTL: deadlineTTL,
		now:         time.Now,
	}
}

// DifficultyPlan returns the 5-question difficulty distribution for an
// experience tier. Unrecognized tiers get the mid-level plan.
func DifficultyPlan(level model.ExperienceLevel) []model.Difficulty {
	switch normalizeLevel(level) {
	case model.ExperienceEntry:
		return []model.Difficulty{
			model.DifficultyEasy, model.DifficultyEasy, model.DifficultyEasy,
			model.DifficultyMedium, model.DifficultyMedium,
		}
	case model.ExperienceSenior, model.ExperienceLead, model.ExperienceExecutive:
		return []model.Difficulty{
			model.DifficultyEasy,
			model.DifficultyMedium, model.DifficultyMedium,
			model.DifficultyHard, model.DifficultyHard,
		}
	default:
		return []model.Difficulty{
			model.DifficultyEasy, model.DifficultyEasy,
			model.DifficultyMedium, model.DifficultyMedium,
			model.DifficultyHard,
		}
	}
}

func normalizeLevel(level model.ExperienceLevel) model.ExperienceLevel {
	l := strings.ToLower(string(level))
	switch {
	case strings.Contains(l, "entry"), strings.Contains(l, "intern"), strings.Contains(l, "fresher"):
		return model.ExperienceEntry
	case strings.Contains(l, "senior"), strings.Contains(l, "expert"):
		return model.ExperienceSenior
	case strings.Contains(l, "lead"):
		return model.ExperienceLead
	case strings.Contains(l, "executive"):
		return model.ExperienceExecutive
	case strings.Contains(l, "mid"), strings.Contains(l, "intermediate"):
		return model.ExperienceMid
	}
	return ""
}

func difficultyGuidance(level model.ExperienceLevel) string {
	switch normalizeLevel(level) {
	case model.ExperienceEntry:
		return `**DIFFICULTY LEVEL: ENTRY-LEVEL/BEGINNER**
- Questions should be VERY SIMPLE and focus on BASIC concepts
- Test basic knowledge, not complex problem-solving
- All 5 questions should be EASY to MEDIUM at most: 3 easy, 2 medium`
	case model.ExperienceSenior, model.ExperienceLead, model.ExperienceExecutive:
		return `**DIFFICULTY LEVEL: SENIOR/EXPERT**
- Questions should test DEEP expertise and complex scenarios
- Focus on architecture, design patterns, best practices, optimization
- Questions: 1 Easy, 2 Medium, 2 Hard`
	default:
		return `**DIFFICULTY LEVEL: MID-LEVEL**
- Questions should test PRACTICAL experience and understanding
- Mix of concepts, best practices, and problem-solving
- Questions: 2 Easy, 2 Medium, 1 Hard`
	}
}

type generatedQuestions struct {
	Questions []model.Question `json:"questions"`
}

func buildGenerationPrompt(job *model.Job) string {
	desc := job.Description
	if len(desc) > 500 {
		desc = desc[:500]
	}
	return fmt.Sprintf(`You are an expert HR interviewer. Generate 5 pre-screening interview questions for this job:

**Job Title:** %s
**Experience Level:** %s
**Department:** %s
**Job Description:** %s
**Required Skills:** %s

%s

**REQUIREMENTS:**
1. Generate EXACTLY 5 questions
2. Each question MUST be max 50 words
3. ALL questions MUST be multiple-choice
4. Each question MUST have exactly 4 options labeled A, B, C, D
5. Provide the correct answer as a single letter (A, B, C, or D)
6. Questions MUST match the difficulty level specified above

**OUTPUT FORMAT (JSON ONLY):**
{
  "questions": [
    {
      "questionNumber": 1,
      "questionType": "multiple-choice",
      "difficulty": "easy",
      "questionText": "Question here (max 50 words)?",
      "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
      "correctAnswer": "A"
    }
  ]
}

Return ONLY valid JSON matching the format above. NO markdown, NO explanations, NO extra text.`,
		job.Title, job.ExperienceLevel, job.Department, desc, job.Skills,
		difficultyGuidance(job.ExperienceLevel))
}

// validQuestionSet checks the untrusted provider output: exactly 5 entries,
// each multiple-choice with 4 options and a single correct letter.
func validQuestionSet(qs []model.Question) bool {
	if len(qs) != totalQuestions {
		return false
	}
	for _, q := range qs {
		if q.Type != model.QuestionMultipleChoice {
			return false
		}
		if q.Text == "" || len(q.Options) != 4 {
			return false
		}
		switch strings.ToUpper(strings.TrimSpace(q.CorrectAnswer)) {
		case "A", "B", "C", "D":
		default:
			return false
		}
	}
	return true
}

// GenerateQuestions produces the 5-question set for a job. Any provider
// failure, unparseable response or wrong-shaped set falls back to the fixed
// template set, so the result always has exactly 5 entries.
func (s *Service) GenerateQuestions(ctx context.Context, job *model.Job) []model.Question {
	raw, err := s.provider.Generate(ctx, buildGenerationPrompt(job))
	if err != nil {
		s.log.Warn("question generation failed, using fallback set",
			zap.String("job_id", job.ID.String()), zap.Error(err))
		return fallbackQuestions(job.Title)
	}

	var parsed generatedQuestions
	if err := ai.DecodeJSON(raw, &parsed); err != nil {
		s.log.Warn("question generation returned malformed JSON, using fallback set",
			zap.String("job_id", job.ID.String()), zap.Error(err))
		return fallbackQuestions(job.Title)
	}

	if !validQuestionSet(parsed.Questions) {
		s.log.Warn("question generation returned an invalid set, using fallback set",
			zap.String("job_id", job.ID.String()),
			zap.Int("count", len(parsed.Questions)))
		return fallbackQuestions(job.Title)
	}

	for i := range parsed.Questions {
		parsed.Questions[i].Number = i + 1
		parsed.Questions[i].CorrectAnswer = strings.ToUpper(strings.TrimSpace(parsed.Questions[i].CorrectAnswer))
	}
	return parsed.Questions
}

// IssueInterview creates the interim interview document: token and deadline
// are fixed at issuance, questions arrive when background generation
// completes and the status flips to pending.
func (s *Service) IssueInterview() (*model.Interview, error) {
	token, err := pkg.NewInterviewToken()
	if err != nil {
		return nil, fmt.Errorf("generate interview token: %w", err)
	}
	return &model.Interview{
		Token:    token,
		Status:   model.InterviewGenerating,
		Deadline: s.now().Add(s.deadlineTTL),
	}, nil
}

// GenerateAndAttach runs the background half of interview creation: generate
// the question set and persist it onto the application. On a persistence
// failure the interview is cleared best-effort so the emailed link is never
// half-live, and the error is returned for the caller to degrade on.
func (s *Service) GenerateAndAttach(ctx context.Context, app *model.Application, job *model.Job) (*model.Interview, error) {
	iv := app.Interview
	if iv == nil {
		return nil, fmt.Errorf("application %s has no issued interview", app.ID)
	}

	now := s.now()
	iv.Questions = s.GenerateQuestions(ctx, job)
	iv.Status = model.InterviewPending
	iv.GeneratedAt = &now

	if err := s.store.UpdateInterview(ctx, app.ID, iv, app.Status); err != nil {
		if cerr := s.store.UpdateInterview(ctx, app.ID, nil, app.Status); cerr != nil {
			s.log.Error("failed to clear interview after attach failure",
				zap.String("application_id", app.ID.String()), zap.Error(cerr))
		}
		return nil, fmt.Errorf("attach interview: %w", err)
	}
	return iv, nil
}

// Access implements the read side of the state machine. First read while
// pending moves the interview to in-progress; reads past the deadline expire
// it; completed interviews expose the verdict only.
func (s *Service) Access(ctx context.Context, token string) (*model.InterviewView, *model.InterviewResult, error) {
	app, err := s.store.GetByInterviewToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	iv := app.Interview
	now := s.now()

	if iv.Status == model.InterviewGenerating {
		return nil, nil, model.ErrInterviewNotReady
	}

	if iv.DeadlinePassed(now) && iv.Status != model.InterviewCompleted && iv.Status != model.InterviewExpired {
		iv.Status = model.InterviewExpired
		iv.ExpiredAt = &now
		if err := s.store.UpdateInterview(ctx, app.ID, iv, app.Status); err != nil {
			s.log.Error("failed to mark interview expired",
				zap.String("application_id", app.ID.String()), zap.Error(err))
		}
		return nil, nil, model.ErrInterviewExpired
	}
	if iv.Status == model.InterviewExpired {
		return nil, nil, model.ErrInterviewExpired
	}

	if iv.Status == model.InterviewCompleted || iv.Status == model.InterviewRejected {
		return nil, &model.InterviewResult{
			OverallScore:  iv.OverallScore,
			TotalAnswered: iv.TotalAnswered,
			Passed:        iv.Passed,
			Summary:       iv.Summary,
			CompletedAt:   iv.CompletedAt,
			Status:        iv.Status,
		}, nil
	}

	if iv.Status == model.InterviewPending {
		iv.Status = model.InterviewInProgress
		iv.StartedAt = &now
		if err := s.store.UpdateInterview(ctx, app.ID, iv, app.Status); err != nil {
			return nil, nil, fmt.Errorf("start interview: %w", err)
		}
	}

	questions := make([]model.PublicQuestion, 0, len(iv.Questions))
	for _, q := range iv.Questions {
		questions = append(questions, model.PublicQuestion{
			Number:     q.Number,
			Type:       q.Type,
			Difficulty: q.Difficulty,
			Text:       q.Text,
			Options:    q.Options,
		})
	}

	view := &model.InterviewView{
		CandidateName: app.FullName(),
		Status:        iv.Status,
		Deadline:      iv.Deadline,
		Questions:     questions,
		TotalAnswered: len(iv.Answers),
	}
	if app.Job != nil {
		view.JobTitle = app.Job.Title
		view.Department = app.Job.Department
		view.Location = app.Job.Location
	}
	return view, nil, nil
}

// Submit scores the answers and applies the verdict. The interview sub-state
// and the application status are written together in one update; a second
// submission attempt fails without touching the stored answers.
func (s *Service) Submit(ctx context.Context, token string, answers []model.SubmittedAnswer) (*model.Application, *model.InterviewResult, error) {
	app, err := s.store.GetByInterviewToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	iv := app.Interview
	now := s.now()

	switch {
	case iv.Status == model.InterviewGenerating:
		return nil, nil, model.ErrInterviewNotReady
	case iv.Status == model.InterviewCompleted || iv.Status == model.InterviewRejected:
		return nil, nil, model.ErrInterviewCompleted
	case iv.Status == model.InterviewExpired:
		return nil, nil, model.ErrInterviewExpired
	}

	if iv.DeadlinePassed(now) {
		iv.Status = model.InterviewExpired
		iv.ExpiredAt = &now
		if uerr := s.store.UpdateInterview(ctx, app.ID, iv, app.Status); uerr != nil {
			s.log.Error("failed to mark interview expired on submit",
				zap.String("application_id", app.ID.String()), zap.Error(uerr))
		}
		return nil, nil, model.ErrInterviewExpired
	}

	if len(answers) < 2 {
		return nil, nil, model.ErrTooFewAnswers
	}

	job := jobContext{}
	if app.Job != nil {
		job = jobContext{
			Title:           app.Job.Title,
			ExperienceLevel: app.Job.ExperienceLevel,
			Department:      app.Job.Department,
		}
	}

	// Unknown question ordinals are dropped, not an error.
	scored := make([]model.Answer, 0, len(answers))
	for _, a := range answers {
		q := iv.QuestionByNumber(a.QuestionNumber)
		if q == nil {
			s.log.Warn("dropping answer for unknown question",
				zap.String("token", token), zap.Int("question", a.QuestionNumber))
			continue
		}
		scored = append(scored, s.scoreAnswer(ctx, q, a.Answer, job, now))
	}

	overall := CalculateOverall(scored, len(iv.Questions))

	iv.Answers = scored
	iv.OverallScore = overall.Score
	iv.TotalAnswered = overall.TotalAnswered
	iv.Passed = overall.Passed
	iv.Summary = overall.Summary
	iv.CompletedAt = &now

	appStatus := model.ApplicationReviewing
	iv.Status = model.InterviewCompleted
	if !overall.Passed {
		appStatus = model.ApplicationRejected
		iv.Status = model.InterviewRejected
	}

	if err := s.store.UpdateInterview(ctx, app.ID, iv, appStatus); err != nil {
		return nil, nil, fmt.Errorf("persist interview submission: %w", err)
	}
	app.Status = appStatus

	scores := make([]model.AnswerScore, 0, len(scored))
	for _, a := range scored {
		scores = append(scores, model.AnswerScore{
			QuestionNumber: a.QuestionNumber,
			Score:          a.Score,
			Feedback:       a.Feedback,
		})
	}

	return app, &model.InterviewResult{
		OverallScore:  overall.Score,
		TotalAnswered: overall.TotalAnswered,
		Passed:        overall.Passed,
		Summary:       overall.Summary,
		CompletedAt:   &now,
		Scores:        scores,
		Status:        iv.Status,
	}, nil
}

// Status returns the compact progress view for a token.
func (s *Service) Status(ctx context.Context, token string) (*model.InterviewResult, error) {
	app, err := s.store.GetByInterviewToken(ctx, token)
	if err != nil {
		return nil, err
	}
	iv := app.Interview
	return &model.InterviewResult{
		OverallScore:  iv.OverallScore,
		TotalAnswered: iv.TotalAnswered,
		Passed:        iv.Passed,
		Summary:       iv.Summary,
		CompletedAt:   iv.CompletedAt,
		Status:        iv.Status,
	}, nil
}

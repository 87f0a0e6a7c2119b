package model

import "time"

type InterviewStatus string

const (
	// InterviewGenerating is the interim state between token issuance and
	// question generation completing in the background. Reads during this
	// window are retryable, not a permanent not-found.
	InterviewGenerating InterviewStatus = "generating"
	InterviewPending    InterviewStatus = "pending"
	InterviewInProgress InterviewStatus = "in-progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewExpired    InterviewStatus = "expired"
	InterviewRejected   InterviewStatus = "rejected"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionScenario       QuestionType = "scenario"
	QuestionTechnical      QuestionType = "technical"
	QuestionBehavioral     QuestionType = "behavioral"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one of the 5 generated pre-screening questions. Multiple-choice
// questions carry exactly 4 labeled options and a single correct letter.
type Question struct {
	Number        int          `json:"questionNumber"`
	Type          QuestionType `json:"questionType"`
	Difficulty    Difficulty   `json:"difficulty"`
	Text          string       `json:"questionText"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
}

// Answer is a scored candidate answer referencing its question by number.
type Answer struct {
	QuestionNumber int       `json:"questionNumber"`
	Answer         string    `json:"answer"`
	Score          int       `json:"score"` // 0-10
	Feedback       string    `json:"feedback"`
	Strengths      []string  `json:"strengths,omitempty"`
	Weaknesses     []string  `json:"weaknesses,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Interview is embedded in Application as a single JSONB document so the
// interview sub-state and the application status always move in one row
// update.
type Interview struct {
	Token         string          `json:"token"`
	Status        InterviewStatus `json:"status"`
	Deadline      time.Time       `json:"deadline"`
	Questions     []Question      `json:"questions,omitempty"`
	Answers       []Answer        `json:"answers,omitempty"`
	OverallScore  int             `json:"overall_score"` // percentage 0-100
	TotalAnswered int             `json:"total_answered"`
	Passed        bool            `json:"passed"`
	Summary       string          `json:"summary,omitempty"`
	GeneratedAt   *time.Time      `json:"generated_at,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	ExpiredAt     *time.Time      `json:"expired_at,omitempty"`
}

func (iv *Interview) DeadlinePassed(now time.Time) bool {
	return !iv.Deadline.IsZero() && now.After(iv.Deadline)
}

func (iv *Interview) Terminal() bool {
	switch iv.Status {
	case InterviewCompleted, InterviewExpired, InterviewRejected:
		return true
	}
	return false
}

// QuestionByNumber returns the question with the given ordinal, or nil.
func (iv *Interview) QuestionByNumber(n int) *Question {
	for i := range iv.Questions {
		if iv.Questions[i].Number == n {
			return &iv.Questions[i]
		}
	}
	return nil
}

// SubmittedAnswer is the raw answer payload from the candidate.
type SubmittedAnswer struct {
	QuestionNumber int    `json:"questionNumber" binding:"required"`
	Answer         string `json:"answer"`
}

type SubmitInterviewReq struct {
	Answers []SubmittedAnswer `json:"answers" binding:"required"`
}

// PublicQuestion is a question as exposed to the candidate: options included,
// correct answer withheld.
type PublicQuestion struct {
	Number     int          `json:"questionNumber"`
	Type       QuestionType `json:"questionType"`
	Difficulty Difficulty   `json:"difficulty"`
	Text       string       `json:"questionText"`
	Options    []string     `json:"options"`
}

type InterviewView struct {
	CandidateName string           `json:"candidate_name"`
	JobTitle      string           `json:"job_title"`
	Department    string           `json:"department"`
	Location      string           `json:"location"`
	Status        InterviewStatus  `json:"status"`
	Deadline      time.Time        `json:"deadline"`
	Questions     []PublicQuestion `json:"questions"`
	TotalAnswered int              `json:"total_answered"`
}

type InterviewResult struct {
	OverallScore  int             `json:"overall_score"`
	TotalAnswered int             `json:"total_answered"`
	Passed        bool            `json:"passed"`
	Summary       string          `json:"summary"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Scores        []AnswerScore   `json:"detailed_scores,omitempty"`
	Status        InterviewStatus `json:"status"`
}

type AnswerScore struct {
	QuestionNumber int    `json:"questionNumber"`
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
}

package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/pkg/model"
)

// Fixed verdict policy. The pass/fail boundary is deliberately independent
// of any free-text AI score so verdicts stay reproducible when the model
// backend is swapped.
const (
	totalQuestions = 5
	passMinCorrect = 3
	correctScore   = 10
)

// jobContext is the slice of job data scoring prompts need.
type jobContext struct {
	Title           string
	ExperienceLevel model.ExperienceLevel
	Department      string
}

type openEndedScore struct {
	Score      float64  `json:"score"`
	Feedback   string   `json:"feedback"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// scoreAnswer scores one submitted answer. Multiple-choice answers are a
// deterministic first-letter match; open-ended types (fallback question sets
// only) go through the provider, degrading to a word-count heuristic when
// the call or parse fails.
func (s *Service) scoreAnswer(ctx context.Context, q *model.Question, answer string, job jobContext, now time.Time) model.Answer {
	out := model.Answer{
		QuestionNumber: q.Number,
		Answer:         answer,
		SubmittedAt:    now,
	}

	if q.Type == model.QuestionMultipleChoice {
		letter := ""
		if trimmed := strings.TrimSpace(answer); trimmed != "" {
			letter = strings.ToUpper(trimmed[:1])
		}
		if letter == strings.ToUpper(q.CorrectAnswer) {
			out.Score = correctScore
			out.Feedback = "Correct answer!"
			out.Strengths = []string{"Good knowledge"}
		} else {
			out.Score = 0
			out.Feedback = fmt.Sprintf("Incorrect. The correct answer was %s.", q.CorrectAnswer)
			out.Weaknesses = []string{"Review this topic"}
		}
		return out
	}

	prompt := fmt.Sprintf(`You are an expert HR evaluator. Score this interview answer:

**Job:** %s (%s)
**Question (%s):** %s
**Candidate's Answer:** %s

**SCORING CRITERIA:**
- Relevance to question (0-3 points)
- Depth of knowledge (0-3 points)
- Communication clarity (0-2 points)
- Practical examples (0-2 points)

**OUTPUT FORMAT (JSON ONLY):**
{
  "score": <number 0-10>,
  "feedback": "<brief evaluation in 1-2 sentences>",
  "strengths": ["<strength 1>", "<strength 2>"],
  "weaknesses": ["<weakness 1>"]
}

Return ONLY valid JSON.`, job.Title, job.ExperienceLevel, q.Difficulty, q.Text, answer)

	raw, err := s.provider.Generate(ctx, prompt)
	if err == nil {
		var parsed openEndedScore
		if derr := ai.DecodeJSON(raw, &parsed); derr == nil {
			out.Score = clampScore(int(parsed.Score))
			out.Feedback = parsed.Feedback
			if out.Feedback == "" {
				out.Feedback = "Answer evaluated."
			}
			out.Strengths = parsed.Strengths
			out.Weaknesses = parsed.Weaknesses
			return out
		}
	}

	// Heuristic fallback keyed on answer length.
	words := len(strings.Fields(answer))
	switch {
	case words < 10:
		out.Score = 3
	case words > 50:
		out.Score = 7
	default:
		out.Score = 5
	}
	out.Feedback = "Answer reviewed."
	return out
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

// OverallResult is the deterministic interview verdict.
type OverallResult struct {
	Score         int
	TotalAnswered int
	CorrectCount  int
	Passed        bool
	Summary       string
}

// CalculateOverall derives the verdict from scored answers. All questions
// must be answered: fewer than total scored answers is an automatic fail
// regardless of individual scores. Only binary full-credit scores count as
// correct; the pass threshold is a fixed 3 of 5.
func CalculateOverall(answers []model.Answer, total int) OverallResult {
	if total <= 0 {
		total = totalQuestions
	}
	answered := len(answers)

	if answered < total {
		return OverallResult{
			Score:         0,
			TotalAnswered: answered,
			Passed:        false,
			Summary:       fmt.Sprintf("Interview incomplete. All %d questions must be answered.", total),
		}
	}

	correct := 0
	for _, a := range answers {
		if a.Score == correctScore {
			correct++
		}
	}

	score := int(float64(correct)/float64(total)*100 + 0.5)
	passed := correct >= passMinCorrect

	summary := fmt.Sprintf("Answered %d/%d questions correctly. ", correct, total)
	switch {
	case correct == total:
		summary += "Perfect score! Excellent candidate for next round."
	case correct == total-1:
		summary += "Very good performance. Strong candidate for interview."
	case passed:
		summary += "Meets minimum requirements. Eligible for next round."
	default:
		summary += fmt.Sprintf("Minimum %d correct answers required to pass. Does not meet pre-screening requirements.", passMinCorrect)
	}

	return OverallResult{
		Score:         score,
		TotalAnswered: answered,
		CorrectCount:  correct,
		Passed:        passed,
		Summary:       summary,
	}
}

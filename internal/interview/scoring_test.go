package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	resp string
	err  error
	// fn overrides resp/err per prompt when set
	fn func(prompt string) (string, error)
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	if f.fn != nil {
		return f.fn(prompt)
	}
	return f.resp, f.err
}

func testService(p *fakeProvider, store Store) *Service {
	s := NewService(p, store, zap.NewNop(), 72*time.Hour)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func answersWithScores(scores ...int) []model.Answer {
	out := make([]model.Answer, len(scores))
	for i, sc := range scores {
		out[i] = model.Answer{QuestionNumber: i + 1, Score: sc}
	}
	return out
}

func TestCalculateOverall(t *testing.T) {
	tests := []struct {
		name        string
		scores      []int
		wantScore   int
		wantPassed  bool
		wantCorrect int
	}{
		{"all correct", []int{10, 10, 10, 10, 10}, 100, true, 5},
		{"four correct", []int{10, 10, 10, 10, 0}, 80, true, 4},
		{"exactly at threshold", []int{10, 10, 10, 0, 0}, 60, true, 3},
		{"one below threshold", []int{10, 10, 0, 0, 0}, 40, false, 2},
		{"none correct", []int{0, 0, 0, 0, 0}, 0, false, 0},
		{"partial credit does not count", []int{10, 10, 7, 7, 7}, 40, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CalculateOverall(answersWithScores(tt.scores...), 5)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantPassed, res.Passed)
			assert.Equal(t, tt.wantCorrect, res.CorrectCount)
			assert.Equal(t, 5, res.TotalAnswered)
		})
	}
}

func TestCalculateOverallIncomplete(t *testing.T) {
	// three perfect answers still fail when two questions were skipped
	res := CalculateOverall(answersWithScores(10, 10, 10), 5)
	assert.Equal(t, 0, res.Score)
	assert.False(t, res.Passed)
	assert.Equal(t, 3, res.TotalAnswered)
	assert.Contains(t, res.Summary, "incomplete")
}

func TestCalculateOverallSummaryBands(t *testing.T) {
	perfect := CalculateOverall(answersWithScores(10, 10, 10, 10, 10), 5)
	assert.Contains(t, perfect.Summary, "Perfect score")

	four := CalculateOverall(answersWithScores(10, 10, 10, 10, 0), 5)
	assert.Contains(t, four.Summary, "Very good")

	three := CalculateOverall(answersWithScores(10, 10, 10, 0, 0), 5)
	assert.Contains(t, three.Summary, "minimum requirements")

	fail := CalculateOverall(answersWithScores(10, 0, 0, 0, 0), 5)
	assert.Contains(t, fail.Summary, "Does not meet")
}

func TestScoreAnswerMultipleChoice(t *testing.T) {
	q := &model.Question{
		Number:        1,
		Type:          model.QuestionMultipleChoice,
		Text:          "Pick one",
		Options:       []string{"A) x", "B) y", "C) z", "D) w"},
		CorrectAnswer: "B",
	}
	svc := testService(&fakeProvider{err: errors.New("should not be called")}, nil)
	now := time.Now()

	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{"exact letter", "B", 10},
		{"lowercase", "b", 10},
		{"full option text", "B) y", 10},
		{"wrong letter", "A", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := svc.scoreAnswer(context.Background(), q, tt.answer, jobContext{}, now)
			assert.Equal(t, tt.want, a.Score)
		})
	}
}

func TestScoreAnswerOpenEnded(t *testing.T) {
	q := &model.Question{
		Number: 2,
		Type:   model.QuestionShortAnswer,
		Text:   "Why do you want this job?",
	}
	now := time.Now()

	t.Run("provider score is used and clamped", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: `{"score": 14, "feedback": "great answer"}`}, nil)
		a := svc.scoreAnswer(context.Background(), q, "because reasons", jobContext{Title: "Engineer"}, now)
		assert.Equal(t, 10, a.Score)
		assert.Equal(t, "great answer", a.Feedback)
	})

	t.Run("heuristic on provider error", func(t *testing.T) {
		svc := testService(&fakeProvider{err: errors.New("model down")}, nil)

		short := svc.scoreAnswer(context.Background(), q, "yes", jobContext{}, now)
		assert.Equal(t, 3, short.Score)

		medium := svc.scoreAnswer(context.Background(), q, strings.Repeat("word ", 20), jobContext{}, now)
		assert.Equal(t, 5, medium.Score)

		long := svc.scoreAnswer(context.Background(), q, strings.Repeat("word ", 60), jobContext{}, now)
		assert.Equal(t, 7, long.Score)
	})

	t.Run("heuristic on malformed JSON", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: "I would rate this highly."}, nil)
		a := svc.scoreAnswer(context.Background(), q, strings.Repeat("word ", 20), jobContext{}, now)
		assert.Equal(t, 5, a.Score)
	})
}

func TestClampScore(t *testing.T) {
	require.Equal(t, 0, clampScore(-3))
	require.Equal(t, 10, clampScore(42))
	require.Equal(t, 6, clampScore(6))
}

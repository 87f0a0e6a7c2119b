package interview

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedUpdate struct {
	appID  uuid.UUID
	iv     *model.Interview
	status model.ApplicationStatus
}

type fakeStore struct {
	app       *model.Application
	updates   []storedUpdate
	updateErr error
}

func (f *fakeStore) GetByInterviewToken(_ context.Context, token string) (*model.Application, error) {
	if f.app == nil || f.app.Interview == nil || f.app.Interview.Token != token {
		return nil, model.ErrNotFound
	}
	return f.app, nil
}

func (f *fakeStore) UpdateInterview(_ context.Context, appID uuid.UUID, iv *model.Interview, status model.ApplicationStatus) error {
	f.updates = append(f.updates, storedUpdate{appID: appID, iv: iv, status: status})
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.app != nil {
		f.app.Interview = iv
		f.app.Status = status
	}
	return nil
}

func validGeneratedJSON(t *testing.T) string {
	t.Helper()
	qs := make([]model.Question, 5)
	for i := range qs {
		qs[i] = model.Question{
			Number:        i + 1,
			Type:          model.QuestionMultipleChoice,
			Difficulty:    model.DifficultyEasy,
			Text:          fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A) 1", "B) 2", "C) 3", "D) 4"},
			CorrectAnswer: "a",
		}
	}
	raw, err := json.Marshal(map[string]interface{}{"questions": qs})
	require.NoError(t, err)
	return string(raw)
}

func pendingApp(svc *Service) *model.Application {
	return &model.Application{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Status:    model.ApplicationPending,
		Interview: &model.Interview{
			Token:    "tok-1",
			Status:   model.InterviewPending,
			Deadline: svc.now().Add(24 * time.Hour),
			Questions: []model.Question{
				{Number: 1, Type: model.QuestionMultipleChoice, Text: "q1", Options: []string{"A) a", "B) b", "C) c", "D) d"}, CorrectAnswer: "A"},
				{Number: 2, Type: model.QuestionMultipleChoice, Text: "q2", Options: []string{"A) a", "B) b", "C) c", "D) d"}, CorrectAnswer: "B"},
				{Number: 3, Type: model.QuestionMultipleChoice, Text: "q3", Options: []string{"A) a", "B) b", "C) c", "D) d"}, CorrectAnswer: "C"},
				{Number: 4, Type: model.QuestionMultipleChoice, Text: "q4", Options: []string{"A) a", "B) b", "C) c", "D) d"}, CorrectAnswer: "D"},
				{Number: 5, Type: model.QuestionMultipleChoice, Text: "q5", Options: []string{"A) a", "B) b", "C) c", "D) d"}, CorrectAnswer: "A"},
			},
		},
		Job: &model.Job{Title: "Backend Engineer", ExperienceLevel: model.ExperienceMid},
	}
}

func TestDifficultyPlan(t *testing.T) {
	tests := []struct {
		level model.ExperienceLevel
		want  map[model.Difficulty]int
	}{
		{model.ExperienceEntry, map[model.Difficulty]int{model.DifficultyEasy: 3, model.DifficultyMedium: 2}},
		{model.ExperienceMid, map[model.Difficulty]int{model.DifficultyEasy: 2, model.DifficultyMedium: 2, model.DifficultyHard: 1}},
		{model.ExperienceSenior, map[model.Difficulty]int{model.DifficultyEasy: 1, model.DifficultyMedium: 2, model.DifficultyHard: 2}},
		{model.ExperienceLead, map[model.Difficulty]int{model.DifficultyEasy: 1, model.DifficultyMedium: 2, model.DifficultyHard: 2}},
		{model.ExperienceExecutive, map[model.Difficulty]int{model.DifficultyEasy: 1, model.DifficultyMedium: 2, model.DifficultyHard: 2}},
		// unrecognized tiers get the mid-level plan
		{model.ExperienceLevel("wizard"), map[model.Difficulty]int{model.DifficultyEasy: 2, model.DifficultyMedium: 2, model.DifficultyHard: 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			plan := DifficultyPlan(tt.level)
			require.Len(t, plan, 5)
			got := map[model.Difficulty]int{}
			for _, d := range plan {
				got[d]++
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateQuestions(t *testing.T) {
	job := &model.Job{ID: uuid.New(), Title: "Backend Engineer", ExperienceLevel: model.ExperienceMid, Skills: "go,postgres"}

	t.Run("valid provider output", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: validGeneratedJSON(t)}, nil)
		qs := svc.GenerateQuestions(context.Background(), job)
		require.Len(t, qs, 5)
		for i, q := range qs {
			assert.Equal(t, i+1, q.Number)
			assert.Equal(t, "A", q.CorrectAnswer) // normalized to upper case
		}
	})

	t.Run("provider error falls back", func(t *testing.T) {
		svc := testService(&fakeProvider{err: errors.New("model down")}, nil)
		qs := svc.GenerateQuestions(context.Background(), job)
		require.Len(t, qs, 5)
		assert.Equal(t, model.QuestionMultipleChoice, qs[0].Type)
		assert.Contains(t, qs[1].Text, "Backend Engineer")
	})

	t.Run("malformed JSON falls back", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: "here are some questions for you"}, nil)
		qs := svc.GenerateQuestions(context.Background(), job)
		require.Len(t, qs, 5)
	})

	t.Run("wrong count falls back", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: `{"questions":[{"questionNumber":1,"questionType":"multiple-choice","questionText":"only one?","options":["A) a","B) b","C) c","D) d"],"correctAnswer":"A"}]}`}, nil)
		qs := svc.GenerateQuestions(context.Background(), job)
		require.Len(t, qs, 5)
		assert.NotEqual(t, "only one?", qs[0].Text)
	})

	t.Run("bad correct answer falls back", func(t *testing.T) {
		raw := validGeneratedJSON(t)
		svc := testService(&fakeProvider{resp: strings.ReplaceAll(raw, `"a"`, `"E"`)}, nil)
		qs := svc.GenerateQuestions(context.Background(), job)
		require.Len(t, qs, 5)
		for _, q := range qs {
			assert.NotEqual(t, "E", q.CorrectAnswer)
		}
	})
}

func TestIssueInterview(t *testing.T) {
	svc := testService(&fakeProvider{}, nil)
	iv, err := svc.IssueInterview()
	require.NoError(t, err)

	assert.Len(t, iv.Token, 64)
	_, err = hex.DecodeString(iv.Token)
	assert.NoError(t, err)

	assert.Equal(t, model.InterviewGenerating, iv.Status)
	assert.Equal(t, svc.now().Add(72*time.Hour), iv.Deadline)
	assert.Empty(t, iv.Questions)
}

func TestAccessStateMachine(t *testing.T) {
	t.Run("generating is not ready", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewGenerating
		store := &fakeStore{app: app}
		svc.store = store

		_, _, err := svc.Access(context.Background(), "tok-1")
		assert.ErrorIs(t, err, model.ErrInterviewNotReady)
		assert.Empty(t, store.updates)
	})

	t.Run("first access starts the attempt", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		store := &fakeStore{app: pendingApp(svc)}
		svc.store = store

		view, result, err := svc.Access(context.Background(), "tok-1")
		require.NoError(t, err)
		require.Nil(t, result)
		require.NotNil(t, view)

		assert.Equal(t, model.InterviewInProgress, view.Status)
		assert.Equal(t, "Ada Lovelace", view.CandidateName)
		assert.Equal(t, "Backend Engineer", view.JobTitle)
		require.Len(t, store.updates, 1)
		assert.Equal(t, model.InterviewInProgress, store.updates[0].iv.Status)
		// application status untouched by starting
		assert.Equal(t, model.ApplicationPending, store.updates[0].status)

		// the candidate never sees correct answers
		for _, q := range view.Questions {
			assert.Len(t, q.Options, 4)
		}
	})

	t.Run("access past deadline expires", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Deadline = svc.now().Add(-time.Hour)
		store := &fakeStore{app: app}
		svc.store = store

		_, _, err := svc.Access(context.Background(), "tok-1")
		assert.ErrorIs(t, err, model.ErrInterviewExpired)
		require.Len(t, store.updates, 1)
		assert.Equal(t, model.InterviewExpired, store.updates[0].iv.Status)
	})

	t.Run("completed returns the verdict only", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		done := svc.now().Add(-time.Hour)
		app.Interview.Status = model.InterviewCompleted
		app.Interview.OverallScore = 80
		app.Interview.Passed = true
		app.Interview.CompletedAt = &done
		store := &fakeStore{app: app}
		svc.store = store

		view, result, err := svc.Access(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Nil(t, view)
		require.NotNil(t, result)
		assert.Equal(t, 80, result.OverallScore)
		assert.True(t, result.Passed)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		svc.store = &fakeStore{}
		_, _, err := svc.Access(context.Background(), "nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func submitAnswers(letters ...string) []model.SubmittedAnswer {
	out := make([]model.SubmittedAnswer, len(letters))
	for i, l := range letters {
		out[i] = model.SubmittedAnswer{QuestionNumber: i + 1, Answer: l}
	}
	return out
}

func TestSubmit(t *testing.T) {
	t.Run("passing submission", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewInProgress
		store := &fakeStore{app: app}
		svc.store = store

		// correct answers are A B C D A; get the first three right
		appOut, result, err := svc.Submit(context.Background(), "tok-1", submitAnswers("A", "B", "C", "A", "B"))
		require.NoError(t, err)

		assert.Equal(t, 60, result.OverallScore)
		assert.True(t, result.Passed)
		assert.Equal(t, 5, result.TotalAnswered)
		assert.Equal(t, model.InterviewCompleted, result.Status)
		assert.Equal(t, model.ApplicationReviewing, appOut.Status)

		require.Len(t, store.updates, 1)
		assert.Equal(t, model.ApplicationReviewing, store.updates[0].status)
		assert.Equal(t, model.InterviewCompleted, store.updates[0].iv.Status)
	})

	t.Run("failing submission rejects the application", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewInProgress
		store := &fakeStore{app: app}
		svc.store = store

		appOut, result, err := svc.Submit(context.Background(), "tok-1", submitAnswers("B", "C", "D", "A", "B"))
		require.NoError(t, err)

		assert.Equal(t, 0, result.OverallScore)
		assert.False(t, result.Passed)
		assert.Equal(t, model.InterviewRejected, result.Status)
		assert.Equal(t, model.ApplicationRejected, appOut.Status)
	})

	t.Run("unknown ordinals are dropped, incomplete set fails", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewInProgress
		store := &fakeStore{app: app}
		svc.store = store

		answers := submitAnswers("A", "B", "C", "D", "A")
		answers[4].QuestionNumber = 99

		_, result, err := svc.Submit(context.Background(), "tok-1", answers)
		require.NoError(t, err)
		assert.Equal(t, 4, result.TotalAnswered)
		assert.False(t, result.Passed)
		assert.Equal(t, 0, result.OverallScore)
	})

	t.Run("too few answers", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewInProgress
		svc.store = &fakeStore{app: app}

		_, _, err := svc.Submit(context.Background(), "tok-1", submitAnswers("A"))
		assert.ErrorIs(t, err, model.ErrTooFewAnswers)
	})

	t.Run("second submission is rejected", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewInProgress
		store := &fakeStore{app: app}
		svc.store = store

		_, _, err := svc.Submit(context.Background(), "tok-1", submitAnswers("A", "B", "C", "D", "A"))
		require.NoError(t, err)

		_, _, err = svc.Submit(context.Background(), "tok-1", submitAnswers("A", "B", "C", "D", "A"))
		assert.ErrorIs(t, err, model.ErrInterviewCompleted)
		assert.Len(t, store.updates, 1)
	})

	t.Run("submit past deadline expires", func(t *testing.T) {
		svc := testService(&fakeProvider{}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewInProgress
		app.Interview.Deadline = svc.now().Add(-time.Minute)
		store := &fakeStore{app: app}
		svc.store = store

		_, _, err := svc.Submit(context.Background(), "tok-1", submitAnswers("A", "B", "C", "D", "A"))
		assert.ErrorIs(t, err, model.ErrInterviewExpired)
		require.Len(t, store.updates, 1)
		assert.Equal(t, model.InterviewExpired, store.updates[0].iv.Status)
	})
}

func TestGenerateAndAttach(t *testing.T) {
	job := &model.Job{Title: "Backend Engineer", ExperienceLevel: model.ExperienceMid}

	t.Run("success flips to pending", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: validGeneratedJSON(t)}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewGenerating
		app.Interview.Questions = nil
		store := &fakeStore{app: app}
		svc.store = store

		iv, err := svc.GenerateAndAttach(context.Background(), app, job)
		require.NoError(t, err)
		assert.Equal(t, model.InterviewPending, iv.Status)
		assert.Len(t, iv.Questions, 5)
		require.NotNil(t, iv.GeneratedAt)
	})

	t.Run("persist failure clears the interview", func(t *testing.T) {
		svc := testService(&fakeProvider{resp: validGeneratedJSON(t)}, nil)
		app := pendingApp(svc)
		app.Interview.Status = model.InterviewGenerating
		store := &fakeStore{app: app, updateErr: errors.New("db down")}
		svc.store = store

		_, err := svc.GenerateAndAttach(context.Background(), app, job)
		require.Error(t, err)
		// first the attach attempt, then the best-effort clear
		require.Len(t, store.updates, 2)
		assert.Nil(t, store.updates[1].iv)
	})
}

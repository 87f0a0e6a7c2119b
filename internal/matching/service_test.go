package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	fn func(prompt string) (string, error)
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	return f.fn(prompt)
}

type fakeFetcher struct {
	// data per public id; missing id means download failure
	data map[string][]byte
}

func (f *fakeFetcher) DownloadResume(_ context.Context, _, publicID string) ([]byte, error) {
	d, ok := f.data[publicID]
	if !ok {
		return nil, errors.New("download failed")
	}
	return d, nil
}

type fakeJobs struct{ job *model.Job }

func (f *fakeJobs) GetJob(_ context.Context, id uuid.UUID) (*model.Job, error) {
	if f.job == nil || f.job.ID != id {
		return nil, model.ErrNotFound
	}
	return f.job, nil
}

type fakeApps struct{ apps []model.Application }

func (f *fakeApps) ListByJob(_ context.Context, _ uuid.UUID) ([]model.Application, error) {
	return f.apps, nil
}

func resumeText(name string) []byte {
	return []byte(strings.Repeat(fmt.Sprintf("%s has experience with Go and Postgres. ", name), 5))
}

func testApp(name, publicID string) model.Application {
	return model.Application{
		ID:        uuid.New(),
		FirstName: name,
		LastName:  "Tester",
		Email:     strings.ToLower(name) + "@example.com",
		Resume: model.ResumeFile{
			PublicID: publicID,
			FileURL:  "https://cdn.example.com/" + publicID,
			FileType: "text/plain",
		},
		AppliedAt: time.Now(),
	}
}

func scoreByName(scores map[string]int) func(prompt string) (string, error) {
	return func(prompt string) (string, error) {
		for name, score := range scores {
			if strings.Contains(prompt, name) {
				return fmt.Sprintf(`{"matchScore": %d, "overallAssessment": "ok", "recommendation": "maybe"}`, score), nil
			}
		}
		return "", errors.New("unknown candidate")
	}
}

func TestRankCandidates(t *testing.T) {
	jobID := uuid.New()
	job := &model.Job{ID: jobID, Title: "Backend Engineer", Skills: "go,postgres"}

	t.Run("ranks by score and honors top_n", func(t *testing.T) {
		apps := []model.Application{
			testApp("Alice", "r1"),
			testApp("Bob", "r2"),
			testApp("Carol", "r3"),
		}
		svc := NewService(
			&fakeProvider{fn: scoreByName(map[string]int{"Alice": 70, "Bob": 90, "Carol": 50})},
			&fakeFetcher{data: map[string][]byte{
				"r1": resumeText("Alice"), "r2": resumeText("Bob"), "r3": resumeText("Carol"),
			}},
			&fakeJobs{job: job},
			&fakeApps{apps: apps},
			zap.NewNop(),
		)

		result, err := svc.RankCandidates(context.Background(), jobID, 2)
		require.NoError(t, err)

		assert.Equal(t, "Backend Engineer", result.JobTitle)
		assert.Equal(t, 3, result.Analyzed)
		assert.Equal(t, 0, result.Failed)
		require.Len(t, result.Candidates, 2)
		assert.Equal(t, 90, result.Candidates[0].Analysis.MatchScore)
		assert.Equal(t, 70, result.Candidates[1].Analysis.MatchScore)
	})

	t.Run("zero top_n defaults to three", func(t *testing.T) {
		apps := []model.Application{
			testApp("Alice", "r1"),
			testApp("Bob", "r2"),
			testApp("Carol", "r3"),
			testApp("Dave", "r4"),
		}
		svc := NewService(
			&fakeProvider{fn: scoreByName(map[string]int{"Alice": 70, "Bob": 90, "Carol": 50, "Dave": 40})},
			&fakeFetcher{data: map[string][]byte{
				"r1": resumeText("Alice"), "r2": resumeText("Bob"),
				"r3": resumeText("Carol"), "r4": resumeText("Dave"),
			}},
			&fakeJobs{job: job},
			&fakeApps{apps: apps},
			zap.NewNop(),
		)

		result, err := svc.RankCandidates(context.Background(), jobID, 0)
		require.NoError(t, err)
		require.Len(t, result.Candidates, 3)
		assert.Equal(t, 90, result.Candidates[0].Analysis.MatchScore)
		assert.Equal(t, 50, result.Candidates[2].Analysis.MatchScore)
	})

	t.Run("unreadable resumes are skipped and counted", func(t *testing.T) {
		apps := []model.Application{
			testApp("Alice", "r1"),
			testApp("Bob", "missing"),
			testApp("Carol", "tiny"),
		}
		svc := NewService(
			&fakeProvider{fn: scoreByName(map[string]int{"Alice": 80})},
			&fakeFetcher{data: map[string][]byte{
				"r1":   resumeText("Alice"),
				"tiny": []byte("too short"),
			}},
			&fakeJobs{job: job},
			&fakeApps{apps: apps},
			zap.NewNop(),
		)

		result, err := svc.RankCandidates(context.Background(), jobID, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Analyzed)
		assert.Equal(t, 2, result.Failed)
		require.Len(t, result.Candidates, 1)
		assert.Equal(t, "Alice Tester", result.Candidates[0].Name)
	})

	t.Run("provider failure degrades to fallback analysis", func(t *testing.T) {
		apps := []model.Application{testApp("Alice", "r1")}
		svc := NewService(
			&fakeProvider{fn: func(string) (string, error) { return "", errors.New("model down") }},
			&fakeFetcher{data: map[string][]byte{"r1": resumeText("Alice")}},
			&fakeJobs{job: job},
			&fakeApps{apps: apps},
			zap.NewNop(),
		)

		result, err := svc.RankCandidates(context.Background(), jobID, 5)
		require.NoError(t, err)
		require.Len(t, result.Candidates, 1)
		assert.Equal(t, 50, result.Candidates[0].Analysis.MatchScore)
		assert.Contains(t, result.Candidates[0].Analysis.OverallAssessment, "Manual review")
	})

	t.Run("no applications", func(t *testing.T) {
		svc := NewService(&fakeProvider{fn: scoreByName(nil)}, &fakeFetcher{}, &fakeJobs{job: job}, &fakeApps{}, zap.NewNop())
		_, err := svc.RankCandidates(context.Background(), jobID, 5)
		assert.ErrorIs(t, err, model.ErrNoApplications)
	})

	t.Run("nothing analyzable", func(t *testing.T) {
		apps := []model.Application{testApp("Alice", "missing")}
		svc := NewService(&fakeProvider{fn: scoreByName(nil)}, &fakeFetcher{}, &fakeJobs{job: job}, &fakeApps{apps: apps}, zap.NewNop())
		_, err := svc.RankCandidates(context.Background(), jobID, 5)
		assert.ErrorIs(t, err, model.ErrNoneAnalyzable)
	})

	t.Run("unknown job", func(t *testing.T) {
		svc := NewService(&fakeProvider{fn: scoreByName(nil)}, &fakeFetcher{}, &fakeJobs{}, &fakeApps{}, zap.NewNop())
		_, err := svc.RankCandidates(context.Background(), uuid.New(), 5)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("out of range scores are clamped", func(t *testing.T) {
		apps := []model.Application{testApp("Alice", "r1")}
		svc := NewService(
			&fakeProvider{fn: func(string) (string, error) {
				return `{"matchScore": 140, "overallAssessment": "great"}`, nil
			}},
			&fakeFetcher{data: map[string][]byte{"r1": resumeText("Alice")}},
			&fakeJobs{job: job},
			&fakeApps{apps: apps},
			zap.NewNop(),
		)

		result, err := svc.RankCandidates(context.Background(), jobID, 5)
		require.NoError(t, err)
		assert.Equal(t, 100, result.Candidates[0].Analysis.MatchScore)
	})
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText([]byte("x"), "image/png")
	assert.Error(t, err)

	text, err := ExtractText([]byte("plain resume body"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "plain resume body", text)
}

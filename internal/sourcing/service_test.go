package sourcing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/internal/github"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	users     []github.User
	searchErr error
	details   map[string]*github.UserDetail
	repos     map[string][]github.Repo
}

func (f *fakeSearcher) SearchUsers(_ context.Context, _ string, _ int) ([]github.User, error) {
	return f.users, f.searchErr
}

func (f *fakeSearcher) UserDetail(_ context.Context, login string) (*github.UserDetail, error) {
	d, ok := f.details[login]
	if !ok {
		return nil, errors.New("profile fetch failed")
	}
	return d, nil
}

func (f *fakeSearcher) UserRepos(_ context.Context, login string, _ int) ([]github.Repo, error) {
	return f.repos[login], nil
}

type fakeCandStore struct {
	replaced []model.AutoFetchedCandidate
	stored   []model.AutoFetchedCandidate
	calls    int
}

func (f *fakeCandStore) ReplaceForJob(_ context.Context, _ uuid.UUID, _ model.CandidateSource, candidates []model.AutoFetchedCandidate) error {
	f.calls++
	f.replaced = candidates
	return nil
}

func (f *fakeCandStore) ListCandidatesByJob(_ context.Context, _ uuid.UUID, _ model.CandidateListFilter) ([]model.AutoFetchedCandidate, error) {
	return f.stored, nil
}

type fakeJobs struct{ job *model.Job }

func (f *fakeJobs) GetJob(_ context.Context, id uuid.UUID) (*model.Job, error) {
	if f.job == nil || f.job.ID != id {
		return nil, model.ErrNotFound
	}
	return f.job, nil
}

// fakeProvider replays one canned response per Generate call.
type fakeProvider struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no canned response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		job  model.Job
		want string
	}{
		{
			"skills and location",
			model.Job{Title: "Backend Engineer", Skills: "Go, PostgreSQL, Redis, Docker", Location: "Berlin, Germany"},
			"location:Berlin go postgresql redis",
		},
		{
			"remote jobs skip the location qualifier",
			model.Job{Title: "Backend Engineer", Skills: "Go", Location: "Remote"},
			"go",
		},
		{
			"no skills falls back to title",
			model.Job{Title: "Data Scientist", Skills: "", Location: ""},
			"Data Scientist",
		},
		{
			"symbols survive cleaning",
			model.Job{Title: "Dev", Skills: "C++, C#, .NET", Location: ""},
			"c++ c# .net",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(&tt.job))
		})
	}
}

func TestFetchCandidates(t *testing.T) {
	jobID := uuid.New()
	job := &model.Job{ID: jobID, Title: "Backend Engineer", Skills: "go,rust", Location: "Berlin"}
	downProvider := &fakeProvider{err: errors.New("model unavailable")}

	t.Run("full refresh with enrichment", func(t *testing.T) {
		gh := &fakeSearcher{
			users: []github.User{{Login: "alice"}, {Login: "bob"}, {Login: "ghost"}},
			details: map[string]*github.UserDetail{
				"alice": {Login: "alice", Name: "Alice", Email: "alice@example.com", HTMLURL: "https://github.com/alice", Followers: 600, PublicRepos: 80, Location: "Berlin", Bio: "gopher", Company: "@acme"},
				"bob":   {Login: "bob", HTMLURL: "https://github.com/bob", Followers: 5, PublicRepos: 2},
			},
			repos: map[string][]github.Repo{
				"alice": {{Name: "a", Language: "Go"}, {Name: "b", Language: "Go"}, {Name: "c", Language: "Rust"}},
				"bob":   {{Name: "x", Language: "PHP"}},
			},
		}
		store := &fakeCandStore{}
		provider := &fakeProvider{responses: []string{
			`{"matchScore": 88, "matchAnalysis": "Strong overlap.", "strengths": ["Go and Rust daily driver"], "concerns": []}`,
			`{"matchScore": 21, "matchAnalysis": "Little overlap.", "strengths": [], "concerns": ["No required skills visible"]}`,
		}}
		svc := NewService(gh, provider, &fakeJobs{job: job}, store, zap.NewNop())

		out, err := svc.FetchCandidates(context.Background(), jobID)
		require.NoError(t, err)

		// ghost's profile fetch failed; the other two survive, best score first
		require.Len(t, out, 2)
		assert.Equal(t, "Alice", out[0].Name)
		assert.Equal(t, "bob", out[1].Name) // login stands in for a missing name
		assert.Equal(t, 88, out[0].AIScore)
		assert.Equal(t, 21, out[1].AIScore)
		assert.Equal(t, "Strong overlap.", out[0].MatchAnalysis)
		assert.Equal(t, []string{"Go", "Rust"}, out[0].GitHubStats.TopLanguages)
		assert.Equal(t, "acme", out[0].CurrentCompany)
		assert.Equal(t, 2, provider.calls)

		assert.Equal(t, 1, store.calls)
		assert.Equal(t, out, store.replaced)
	})

	t.Run("provider outage falls back to signal rubric", func(t *testing.T) {
		gh := &fakeSearcher{
			users: []github.User{{Login: "alice"}, {Login: "bob"}},
			details: map[string]*github.UserDetail{
				"alice": {Login: "alice", Name: "Alice", Email: "alice@example.com", Followers: 600, PublicRepos: 80, Bio: "gopher", Location: "Berlin"},
				"bob":   {Login: "bob", Followers: 5, PublicRepos: 2},
			},
			repos: map[string][]github.Repo{
				"alice": {{Name: "a", Language: "Go"}, {Name: "c", Language: "Rust"}},
				"bob":   {{Name: "x", Language: "PHP"}},
			},
		}
		svc := NewService(gh, downProvider, &fakeJobs{job: job}, &fakeCandStore{}, zap.NewNop())

		out, err := svc.FetchCandidates(context.Background(), jobID)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Greater(t, out[0].AIScore, out[1].AIScore)
		assert.NotEmpty(t, out[0].MatchAnalysis)
	})

	t.Run("malformed provider output falls back", func(t *testing.T) {
		gh := &fakeSearcher{
			users:   []github.User{{Login: "alice"}},
			details: map[string]*github.UserDetail{"alice": {Login: "alice", Followers: 600, PublicRepos: 80}},
			repos:   map[string][]github.Repo{"alice": {{Name: "a", Language: "Go"}}},
		}
		provider := &fakeProvider{responses: []string{"sorry, I cannot help with that"}}
		svc := NewService(gh, provider, &fakeJobs{job: job}, &fakeCandStore{}, zap.NewNop())

		out, err := svc.FetchCandidates(context.Background(), jobID)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Greater(t, out[0].AIScore, 0)
	})

	t.Run("scores outside 0-100 are clamped", func(t *testing.T) {
		gh := &fakeSearcher{
			users:   []github.User{{Login: "alice"}},
			details: map[string]*github.UserDetail{"alice": {Login: "alice"}},
		}
		provider := &fakeProvider{responses: []string{`{"matchScore": 250, "matchAnalysis": "x"}`}}
		svc := NewService(gh, provider, &fakeJobs{job: job}, &fakeCandStore{}, zap.NewNop())

		out, err := svc.FetchCandidates(context.Background(), jobID)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 100, out[0].AIScore)
	})

	t.Run("no search results", func(t *testing.T) {
		svc := NewService(&fakeSearcher{}, downProvider, &fakeJobs{job: job}, &fakeCandStore{}, zap.NewNop())
		_, err := svc.FetchCandidates(context.Background(), jobID)
		assert.ErrorIs(t, err, model.ErrNoSearchResults)
	})

	t.Run("all enrichment failures", func(t *testing.T) {
		gh := &fakeSearcher{users: []github.User{{Login: "ghost"}}}
		svc := NewService(gh, downProvider, &fakeJobs{job: job}, &fakeCandStore{}, zap.NewNop())
		_, err := svc.FetchCandidates(context.Background(), jobID)
		assert.ErrorIs(t, err, model.ErrNoSearchResults)
	})

	t.Run("search error propagates", func(t *testing.T) {
		gh := &fakeSearcher{searchErr: errors.New("rate limited")}
		svc := NewService(gh, downProvider, &fakeJobs{job: job}, &fakeCandStore{}, zap.NewNop())
		_, err := svc.FetchCandidates(context.Background(), jobID)
		assert.Error(t, err)
	})

	t.Run("unknown job", func(t *testing.T) {
		svc := NewService(&fakeSearcher{}, downProvider, &fakeJobs{}, &fakeCandStore{}, zap.NewNop())
		_, err := svc.FetchCandidates(context.Background(), uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestHeuristicProfileScore(t *testing.T) {
	job := &model.Job{Skills: "go,rust"}

	strong := &model.AutoFetchedCandidate{
		Bio:      "gopher",
		Email:    "x@example.com",
		Location: "Berlin",
		GitHubStats: model.GitHubStats{
			Followers:    1000,
			PublicRepos:  120,
			TopLanguages: []string{"Go", "Rust"},
		},
	}
	weak := &model.AutoFetchedCandidate{
		GitHubStats: model.GitHubStats{TopLanguages: []string{"PHP"}},
	}

	strongScore, _, strengths, _ := heuristicProfileScore(job, strong)
	weakScore, _, _, concerns := heuristicProfileScore(job, weak)

	assert.Greater(t, strongScore, weakScore)
	assert.LessOrEqual(t, strongScore, 100)
	assert.NotEmpty(t, strengths)
	assert.NotEmpty(t, concerns)
}

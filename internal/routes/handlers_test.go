package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-analytics/internal/data/testdb"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/http/handlers"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/config"
)

// emptySource knows every repository and has no activity to report.
type emptySource struct{}

func (emptySource) FetchRepository(_ context.Context, owner, name string) (*domain.Repository, error) {
	return &domain.Repository{Owner: owner, Name: name, URL: "https://github.com/" + owner + "/" + name}, nil
}

func (emptySource) FetchCommits(context.Context, string, string, time.Time, int) ([]domain.Commit, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchPullRequests(context.Context, string, string, time.Time, int) ([]domain.PullRequest, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchIssues(context.Context, string, string, time.Time, int) ([]domain.Issue, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchReviews(context.Context, string, string, int, int) ([]domain.Review, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchContributors(context.Context, string, string, int) ([]domain.Contributor, int, error) {
	return nil, 0, nil
}

type testServer struct {
	*httptest.Server
	repos     repository.RepositoryStore
	ingestion usecases.IngestionUsecase
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	cfg := config.Config{
		DB:              config.DBConfig{OperationTimeout: 5 * time.Second, RetryAttempts: 1},
		SyncConcurrency: 1,
	}
	database := testdb.New(t)
	db := database.DB()

	repos := repository.NewGormRepositoryStore(db)
	commits := repository.NewGormCommitStore(db)
	activity := repository.NewGormActivityStore(db)
	contributors := repository.NewGormContributorStore(db)
	contributions := repository.NewGormContributionStore(db)
	stats := repository.NewGormStatStore(db)

	ingestion := usecases.NewIngestionUsecase(repos, commits, activity, contributors, cfg)
	query := usecases.NewQueryUsecase(repos, commits, activity, contributors, contributions, stats, cfg)
	lifecycle, stop := context.WithCancel(context.Background())
	sync := usecases.NewSyncUsecase(lifecycle, emptySource{}, ingestion, repos, cfg)
	t.Cleanup(func() {
		stop()
		sync.Wait()
	})

	router := NewRouter(Handlers{
		Repository: handlers.NewRepositoryHandler(sync, query),
		Commit:     handlers.NewCommitHandler(query),
		Period:     handlers.NewPeriodHandler(usecases.NewAggregationUsecase(contributions, cfg), query),
		Stat:       handlers.NewStatHandler(usecases.NewSnapshotUsecase(repos, stats, cfg), query),
		Ping:       database.Ping,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return testServer{Server: server, repos: repos, ingestion: ingestion}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s testServer) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s testServer) addWidgets(t *testing.T) domain.Repository {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/repositories", `{"name":"acme/widgets"}`)
	require.Equal(t, http.StatusAccepted, status, env.Message)

	var repo domain.Repository
	require.NoError(t, json.Unmarshal(env.Data, &repo))
	repo.ID = s.waitSynced(t, repo.Owner, repo.Name)
	return repo
}

func (s testServer) waitSynced(t *testing.T, owner, name string) uint {
	t.Helper()
	var id uint
	require.Eventually(t, func() bool {
		repo, err := s.repos.RepoByName(context.Background(), owner, name)
		if err != nil || repo.LastSyncedAt == nil {
			return false
		}
		id = repo.ID
		return true
	}, 5*time.Second, 10*time.Millisecond)
	return id
}

func (s testServer) seedActivity(t *testing.T, repoID uint) {
	t.Helper()
	ctx := context.Background()
	for i, author := range []string{"alice", "bob", "alice", "bob", "alice"} {
		_, _, err := s.ingestion.RecordCommit(ctx, domain.Commit{
			RepoID: repoID, SHA: fmt.Sprintf("sha-%d", i), AuthorLogin: author, AuthorName: author,
			Date:  time.Date(2025, 1, 3+i, 10, 0, 0, 0, time.UTC),
			Files: []domain.CommitFile{{Filename: "widget.go", Status: domain.FileModified, Changes: 2}},
		})
		require.NoError(t, err)
	}
	_, err := s.ingestion.UpsertPullRequest(ctx, domain.PullRequest{RepoID: repoID, Number: 1, Author: "alice", State: "open", CreatedAt: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = s.ingestion.UpsertIssue(ctx, domain.Issue{RepoID: repoID, Number: 2, Author: "alice", State: "open", CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
}

func TestRouter_RepositoryLifecycle(t *testing.T) {
	s := newTestServer(t)
	repo := s.addWidgets(t)
	assert.Equal(t, "acme", repo.Owner)
	assert.NotEmpty(t, repo.PublicID)
	s.seedActivity(t, repo.ID)

	t.Run("list", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories", "")
		require.Equal(t, http.StatusOK, status)
		var repos []domain.Repository
		require.NoError(t, json.Unmarshal(env.Data, &repos))
		assert.Len(t, repos, 1)
	})

	t.Run("by public id", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories/"+repo.PublicID, "")
		require.Equal(t, http.StatusOK, status, env.Message)
		var got domain.Repository
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "widgets", got.Name)
		assert.Equal(t, repo.PublicID, got.PublicID)
	})

	t.Run("commit by sha", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories/acme/widgets/commits/sha-2", "")
		require.Equal(t, http.StatusOK, status, env.Message)
		var commit domain.Commit
		require.NoError(t, json.Unmarshal(env.Data, &commit))
		assert.Equal(t, "sha-2", commit.SHA)
		require.Len(t, commit.Files, 1)
		assert.Equal(t, "widget.go", commit.Files[0].Filename)
	})

	t.Run("pull requests", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories/acme/widgets/pull-requests", "")
		require.Equal(t, http.StatusOK, status)
		var prs []domain.PullRequest
		require.NoError(t, json.Unmarshal(env.Data, &prs))
		require.Len(t, prs, 1)
		assert.Equal(t, "alice", prs[0].Author)
	})

	t.Run("commits page", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories/acme/widgets/commits?limit=2&sort=sha&direction=asc", "")
		require.Equal(t, http.StatusOK, status)

		var page struct {
			Commits  []domain.Commit `json:"commits"`
			PageInfo struct {
				TotalCount  int64 `json:"total_count"`
				HasNextPage bool  `json:"has_next_page"`
			} `json:"page_info"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(5), page.PageInfo.TotalCount)
		assert.True(t, page.PageInfo.HasNextPage)
		require.Len(t, page.Commits, 2)
		assert.Equal(t, "sha-0", page.Commits[0].SHA)
	})

	t.Run("top contributors", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories/acme/widgets/contributors/top?n=1", "")
		require.Equal(t, http.StatusOK, status)
		var top []domain.Contributor
		require.NoError(t, json.Unmarshal(env.Data, &top))
		require.Len(t, top, 1)
		assert.Equal(t, domain.Contributor{Username: "alice", Contributions: 3}, top[0])
	})

	t.Run("file analytics", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/repositories/acme/widgets/critical-files", "")
		require.Equal(t, http.StatusOK, status)
		var files []domain.CriticalFile
		require.NoError(t, json.Unmarshal(env.Data, &files))
		assert.Equal(t, []domain.CriticalFile{{Filename: "widget.go", Commits: 5, Authors: 2, Changes: 10}}, files)

		status, env = s.do(t, http.MethodGet, "/repositories/acme/widgets/bus-factor", "")
		require.Equal(t, http.StatusOK, status)
		var bf domain.BusFactor
		require.NoError(t, json.Unmarshal(env.Data, &bf))
		assert.Equal(t, 1, bf.Factor)
	})
}

func TestRouter_Periods(t *testing.T) {
	s := newTestServer(t)
	repo := s.addWidgets(t)
	s.seedActivity(t, repo.ID)

	status, env := s.do(t, http.MethodPost, "/repositories/acme/widgets/periods", `{"start_date":"2025-01-01","end_date":"2025-01-31"}`)
	require.Equal(t, http.StatusOK, status, env.Message)

	var period struct {
		Period        domain.ContributionPeriod      `json:"period"`
		Contributions []domain.DeveloperContribution `json:"contributions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &period))
	require.Len(t, period.Contributions, 2)
	assert.Equal(t, "alice", period.Contributions[0].Username)
	assert.Equal(t, 5, period.Contributions[0].ContributionsTotal)
	assert.Equal(t, 2, period.Contributions[1].ContributionsTotal)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/periods/%d/summary", period.Period.ID), "")
	require.Equal(t, http.StatusOK, status)
	var summary domain.PeriodSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 7, summary.Total)
	assert.InDelta(t, 3.5, summary.Mean, 1e-9)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/periods/%d/contributions", period.Period.ID), "")
	require.Equal(t, http.StatusOK, status)
	var rows []domain.DeveloperContribution
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 2)

	status, env = s.do(t, http.MethodGet, "/repositories/acme/widgets/periods", "")
	require.Equal(t, http.StatusOK, status)
	var periods []domain.ContributionPeriod
	require.NoError(t, json.Unmarshal(env.Data, &periods))
	assert.Len(t, periods, 1)
}

func TestRouter_Snapshots(t *testing.T) {
	s := newTestServer(t)
	repo := s.addWidgets(t)
	s.seedActivity(t, repo.ID)

	for i := 0; i < 2; i++ {
		status, env := s.do(t, http.MethodPost, "/repositories/acme/widgets/snapshots", `{"date":"2025-01-31"}`)
		require.Equal(t, http.StatusOK, status, env.Message)
	}

	status, env := s.do(t, http.MethodGet, "/repositories/acme/widgets/stats", "")
	require.Equal(t, http.StatusOK, status)
	var stats []domain.RepoStat
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, domain.RepoStat{
		SnapshotDate: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Commits:      5, Issues: 1, PullRequests: 1, OpenIssues: 1,
	}, stats[0])
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)

	t.Run("store down", func(t *testing.T) {
		router := NewRouter(Handlers{
			Repository: handlers.NewRepositoryHandler(nil, nil),
			Commit:     handlers.NewCommitHandler(nil),
			Period:     handlers.NewPeriodHandler(nil, nil),
			Stat:       handlers.NewStatHandler(nil, nil),
			Ping: func(context.Context) error {
				return errors.New("dial tcp 10.0.0.5:5432: connection refused")
			},
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	})
}

func TestRouter_Errors(t *testing.T) {
	s := newTestServer(t)
	s.addWidgets(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown repository", http.MethodGet, "/repositories/acme/gadgets", "", http.StatusNotFound},
		{"unknown public id", http.MethodGet, "/repositories/8f14e45f-ceea-467f-a0e6-3c1d2b4a5e6f", "", http.StatusNotFound},
		{"malformed public id", http.MethodGet, "/repositories/not-a-uuid", "", http.StatusBadRequest},
		{"unknown commit", http.MethodGet, "/repositories/acme/widgets/commits/nope", "", http.StatusNotFound},
		{"malformed repository name", http.MethodPost, "/repositories", `{"name":"widgets"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/repositories", `{`, http.StatusBadRequest},
		{"bad since", http.MethodPost, "/repositories", `{"owner":"acme","name":"widgets","since":"yesterday"}`, http.StatusBadRequest},
		{"inverted period", http.MethodPost, "/repositories/acme/widgets/periods", `{"start_date":"2025-02-01","end_date":"2025-01-01"}`, http.StatusBadRequest},
		{"missing period date", http.MethodPost, "/repositories/acme/widgets/periods", `{"start_date":"2025-02-01"}`, http.StatusBadRequest},
		{"unknown period", http.MethodGet, "/periods/99/summary", "", http.StatusNotFound},
		{"non numeric period", http.MethodGet, "/periods/abc/contributions", "", http.StatusBadRequest},
		{"bad snapshot date", http.MethodPost, "/repositories/acme/widgets/snapshots", `{"date":"31/01/2025"}`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := s.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, "error", env.Status)
			assert.NotEmpty(t, env.Message)
		})
	}
}

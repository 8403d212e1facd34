package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// setupTestClient points a GitHubClient at a mock server.
func setupTestClient(t *testing.T, mux *http.ServeMux, cfg config.GitHubConfig) *GitHubClient {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	rest := gh.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	rest.BaseURL = baseURL

	return newGitHubClient(rest, cfg)
}

// nextPage sets a Link header the way GitHub does when more pages follow.
func nextPage(w http.ResponseWriter, r *http.Request, page int) {
	u := *r.URL
	q := u.Query()
	q.Set("page", fmt.Sprint(page))
	u.RawQuery = q.Encode()
	w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, r.Host, u.String()))
}

func TestFetchRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"widgets","owner":{"login":"acme"},"description":"gears","html_url":"https://github.com/acme/widgets"}`)
	})
	client := setupTestClient(t, mux, config.GitHubConfig{})

	repo, err := client.FetchRepository(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, &domain.Repository{
		Owner: "acme", Name: "widgets", Description: "gears", URL: "https://github.com/acme/widgets",
	}, repo)

	_, err = client.FetchRepository(context.Background(), "acme", "gadgets")
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)
}

func TestFetchCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-01-01T00:00:00Z", r.URL.Query().Get("since"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		if r.URL.Query().Get("page") == "" {
			nextPage(w, r, 2)
		}
		fmt.Fprint(w, `[{"sha":"abc","author":{"login":"alice"},"html_url":"https://github.com/acme/widgets/commit/abc",
			"commit":{"message":"add gears","author":{"name":"Alice","email":"alice@example.com","date":"2025-01-02T10:00:00Z"}}}]`)
	})
	mux.HandleFunc("/repos/acme/widgets/commits/abc", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"abc","author":{"login":"alice"},
			"commit":{"message":"add gears","author":{"name":"Alice","email":"alice@example.com","date":"2025-01-02T10:00:00Z"}},
			"files":[{"filename":"gears.go","status":"added","additions":10,"deletions":0,"changes":10}]}`)
	})
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("with files", func(t *testing.T) {
		client := setupTestClient(t, mux, config.GitHubConfig{PerPage: 50, FetchFiles: true})
		commits, next, err := client.FetchCommits(context.Background(), "acme", "widgets", since, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, next)
		require.Len(t, commits, 1)

		c := commits[0]
		assert.Equal(t, "abc", c.SHA)
		assert.Equal(t, "alice", c.AuthorLogin)
		assert.Equal(t, "Alice", c.AuthorName)
		assert.True(t, c.Date.Equal(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, []domain.CommitFile{{Filename: "gears.go", Status: domain.FileAdded, Additions: 10, Changes: 10}}, c.Files)
	})

	t.Run("last page without files", func(t *testing.T) {
		client := setupTestClient(t, mux, config.GitHubConfig{PerPage: 50})
		commits, next, err := client.FetchCommits(context.Background(), "acme", "widgets", since, 2)
		require.NoError(t, err)
		assert.Zero(t, next)
		require.Len(t, commits, 1)
		assert.Empty(t, commits[0].Files)
		assert.Equal(t, "https://github.com/acme/widgets/commit/abc", commits[0].URL)
	})
}

func TestFetchCommits_EmptyRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Git Repository is empty."}`)
	})
	client := setupTestClient(t, mux, config.GitHubConfig{})

	commits, next, err := client.FetchCommits(context.Background(), "acme", "empty", time.Time{}, 0)
	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.Zero(t, next)
}

func TestFetchPullRequests_StopsAtSince(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		nextPage(w, r, 2)
		fmt.Fprint(w, `[
			{"number":2,"state":"closed","title":"b","user":{"login":"bob"},"created_at":"2025-01-05T00:00:00Z","updated_at":"2025-01-06T00:00:00Z","merged_at":"2025-01-06T00:00:00Z","closed_at":"2025-01-06T00:00:00Z"},
			{"number":1,"state":"open","title":"a","user":{"login":"alice"},"created_at":"2024-12-01T00:00:00Z","updated_at":"2024-12-02T00:00:00Z"}
		]`)
	})
	client := setupTestClient(t, mux, config.GitHubConfig{})

	prs, next, err := client.FetchPullRequests(context.Background(), "acme", "widgets", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	assert.Zero(t, next)
	require.Len(t, prs, 1)
	assert.Equal(t, 2, prs[0].Number)
	assert.Equal(t, "bob", prs[0].Author)
	require.NotNil(t, prs[0].MergedAt)

	prs, next, err = client.FetchPullRequests(context.Background(), "acme", "widgets", time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
	assert.Len(t, prs, 2)
	assert.Nil(t, prs[1].MergedAt)
}

func TestFetchIssues_SkipsPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"number":3,"state":"open","title":"bug","user":{"login":"alice"},"created_at":"2025-01-03T00:00:00Z","updated_at":"2025-01-03T00:00:00Z"},
			{"number":2,"state":"closed","title":"pr","user":{"login":"bob"},"pull_request":{"url":"https://api.github.com/repos/acme/widgets/pulls/2"}}
		]`)
	})
	client := setupTestClient(t, mux, config.GitHubConfig{})

	issues, next, err := client.FetchIssues(context.Background(), "acme", "widgets", time.Time{}, 0)
	require.NoError(t, err)
	assert.Zero(t, next)
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Number)
	assert.Equal(t, "alice", issues[0].Author)
}

func TestFetchReviewsAndContributors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/2/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":77,"user":{"login":"carol"},"state":"APPROVED","body":"lgtm","submitted_at":"2025-01-06T00:00:00Z"}]`)
	})
	mux.HandleFunc("/repos/acme/widgets/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login":"alice","contributions":3},{"login":"","contributions":1,"type":"Anonymous"}]`)
	})
	client := setupTestClient(t, mux, config.GitHubConfig{})

	reviews, _, err := client.FetchReviews(context.Background(), "acme", "widgets", 2, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.Review{
		PRNumber: 2, ReviewID: 77, UserID: "carol", State: "APPROVED", Body: "lgtm",
		SubmittedAt: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}, reviews[0])

	contributors, _, err := client.FetchContributors(context.Background(), "acme", "widgets", 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Contributor{{Username: "alice", Contributions: 3}}, contributors)
}

func TestFetch_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"Internal Server Error"}`)
	})
	client := setupTestClient(t, mux, config.GitHubConfig{})

	_, _, err := client.FetchIssues(context.Background(), "acme", "widgets", time.Time{}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list issues")
}

func TestNewGitHubClient(t *testing.T) {
	client, err := NewGitHubClient(config.GitHubConfig{Token: "t", PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, client.perPage)
}

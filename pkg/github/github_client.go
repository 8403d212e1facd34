// Package github reads repository activity from the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	gh "github.com/google/go-github/v62/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

const stateAll = "all"

// GitHubClient pages through GitHub one request at a time. A returned next
// page of 0 means the listing is exhausted.
type GitHubClient struct {
	client     *gh.Client
	perPage    int
	fetchFiles bool
}

// NewGitHubClient builds a client that sleeps through secondary rate limits.
// An empty token makes unauthenticated requests.
func NewGitHubClient(cfg config.GitHubConfig) (*GitHubClient, error) {
	sleep := cfg.RateLimitSleep
	if sleep <= 0 {
		sleep = time.Hour
	}
	waiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(sleep, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = waiter
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}

	return newGitHubClient(gh.NewClient(&http.Client{Transport: transport}), cfg), nil
}

func newGitHubClient(client *gh.Client, cfg config.GitHubConfig) *GitHubClient {
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	return &GitHubClient{client: client, perPage: perPage, fetchFiles: cfg.FetchFiles}
}

func (c *GitHubClient) listOptions(page int) gh.ListOptions {
	return gh.ListOptions{Page: page, PerPage: c.perPage}
}

func (c *GitHubClient) FetchRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	repo, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, wrap("fetch repository", err)
	}

	return &domain.Repository{
		Owner:       repo.GetOwner().GetLogin(),
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		URL:         repo.GetHTMLURL(),
	}, nil
}

// FetchCommits lists commits authored at or after since, newest first.
func (c *GitHubClient) FetchCommits(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.Commit, int, error) {
	opts := &gh.CommitsListOptions{Since: since, ListOptions: c.listOptions(page)}
	listed, resp, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		if isStatus(err, http.StatusConflict) {
			// empty repository
			return nil, 0, nil
		}
		return nil, 0, wrap("list commits", err)
	}

	commits := make([]domain.Commit, 0, len(listed))
	for _, rc := range listed {
		if c.fetchFiles {
			full, _, err := c.client.Repositories.GetCommit(ctx, owner, name, rc.GetSHA(), nil)
			if err != nil {
				return nil, 0, wrap("get commit "+rc.GetSHA(), err)
			}
			rc = full
		}
		commits = append(commits, toCommit(rc))
	}
	return commits, resp.NextPage, nil
}

// FetchPullRequests lists pull requests by last update, newest first, and
// stops paging once it reaches ones last updated before since.
func (c *GitHubClient) FetchPullRequests(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.PullRequest, int, error) {
	opts := &gh.PullRequestListOptions{
		State:       stateAll,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: c.listOptions(page),
	}
	listed, resp, err := c.client.PullRequests.List(ctx, owner, name, opts)
	if err != nil {
		return nil, 0, wrap("list pull requests", err)
	}

	next := resp.NextPage
	prs := make([]domain.PullRequest, 0, len(listed))
	for _, pr := range listed {
		if !since.IsZero() && pr.GetUpdatedAt().Before(since) {
			next = 0
			break
		}
		prs = append(prs, domain.PullRequest{
			Number:    pr.GetNumber(),
			Author:    pr.GetUser().GetLogin(),
			State:     pr.GetState(),
			Title:     pr.GetTitle(),
			CreatedAt: pr.GetCreatedAt().Time,
			UpdatedAt: pr.GetUpdatedAt().Time,
			ClosedAt:  timePtr(pr.ClosedAt),
			MergedAt:  timePtr(pr.MergedAt),
			URL:       pr.GetHTMLURL(),
		})
	}
	return prs, next, nil
}

// FetchIssues lists issues updated at or after since. Pull requests, which the
// issues endpoint also returns, are skipped.
func (c *GitHubClient) FetchIssues(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.Issue, int, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       stateAll,
		Since:       since,
		Sort:        "updated",
		Direction:   "asc",
		ListOptions: c.listOptions(page),
	}
	listed, resp, err := c.client.Issues.ListByRepo(ctx, owner, name, opts)
	if err != nil {
		return nil, 0, wrap("list issues", err)
	}

	issues := make([]domain.Issue, 0, len(listed))
	for _, is := range listed {
		if is.IsPullRequest() {
			continue
		}
		issues = append(issues, domain.Issue{
			Number:    is.GetNumber(),
			Author:    is.GetUser().GetLogin(),
			State:     is.GetState(),
			Title:     is.GetTitle(),
			CreatedAt: is.GetCreatedAt().Time,
			UpdatedAt: is.GetUpdatedAt().Time,
			ClosedAt:  timePtr(is.ClosedAt),
			URL:       is.GetHTMLURL(),
		})
	}
	return issues, resp.NextPage, nil
}

func (c *GitHubClient) FetchReviews(ctx context.Context, owner, name string, number, page int) ([]domain.Review, int, error) {
	opts := c.listOptions(page)
	listed, resp, err := c.client.PullRequests.ListReviews(ctx, owner, name, number, &opts)
	if err != nil {
		return nil, 0, wrap(fmt.Sprintf("list reviews of #%d", number), err)
	}

	reviews := make([]domain.Review, 0, len(listed))
	for _, rv := range listed {
		reviews = append(reviews, domain.Review{
			PRNumber:    number,
			ReviewID:    rv.GetID(),
			UserID:      rv.GetUser().GetLogin(),
			State:       rv.GetState(),
			SubmittedAt: rv.GetSubmittedAt().Time,
			Body:        rv.GetBody(),
		})
	}
	return reviews, resp.NextPage, nil
}

// FetchContributors returns GitHub's own per-login commit totals.
func (c *GitHubClient) FetchContributors(ctx context.Context, owner, name string, page int) ([]domain.Contributor, int, error) {
	opts := &gh.ListContributorsOptions{ListOptions: c.listOptions(page)}
	listed, resp, err := c.client.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		if isStatus(err, http.StatusConflict) {
			return nil, 0, nil
		}
		return nil, 0, wrap("list contributors", err)
	}

	contributors := make([]domain.Contributor, 0, len(listed))
	for _, ct := range listed {
		if ct.GetLogin() == "" {
			log.Debug().Str("repository", owner+"/"+name).Msg("skipping anonymous contributor")
			continue
		}
		contributors = append(contributors, domain.Contributor{
			Username:      ct.GetLogin(),
			Contributions: int64(ct.GetContributions()),
		})
	}
	return contributors, resp.NextPage, nil
}

func toCommit(rc *gh.RepositoryCommit) domain.Commit {
	author := rc.GetCommit().GetAuthor()
	commit := domain.Commit{
		SHA:         rc.GetSHA(),
		AuthorName:  author.GetName(),
		AuthorEmail: author.GetEmail(),
		AuthorLogin: rc.GetAuthor().GetLogin(),
		Date:        author.GetDate().Time,
		Message:     rc.GetCommit().GetMessage(),
		URL:         rc.GetHTMLURL(),
	}
	for _, f := range rc.Files {
		commit.Files = append(commit.Files, domain.CommitFile{
			Filename:  f.GetFilename(),
			Status:    domain.FileStatus(f.GetStatus()),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
		})
	}
	return commit
}

func timePtr(ts *gh.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

func isStatus(err error, status int) bool {
	var errResp *gh.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == status
}

func wrap(op string, err error) error {
	if isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%s: %w: %w", op, errcodes.ErrNoRecordFound, err)
	}
	return fmt.Errorf("%s: %w", op, errcodes.Translate(err))
}

package repository

import (
	"context"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// ActivityStore persists pull requests, issues and reviews keyed by their
// per-repository natural keys.
type ActivityStore interface {
	UpsertPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequest, error)
	UpsertIssue(ctx context.Context, issue domain.Issue) (*domain.Issue, error)
	UpsertReview(ctx context.Context, review domain.Review) (*domain.Review, error)
	PullRequestsByRepository(ctx context.Context, repoID uint) ([]domain.PullRequest, error)
}

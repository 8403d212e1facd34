package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// ActivityStore mock
type ActivityStore struct {
	mock.Mock
}

func (m *ActivityStore) UpsertPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequest, error) {
	args := m.Called(ctx, pr)
	stored, _ := args.Get(0).(*domain.PullRequest)
	return stored, args.Error(1)
}

func (m *ActivityStore) UpsertIssue(ctx context.Context, issue domain.Issue) (*domain.Issue, error) {
	args := m.Called(ctx, issue)
	stored, _ := args.Get(0).(*domain.Issue)
	return stored, args.Error(1)
}

func (m *ActivityStore) UpsertReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, review)
	stored, _ := args.Get(0).(*domain.Review)
	return stored, args.Error(1)
}

func (m *ActivityStore) PullRequestsByRepository(ctx context.Context, repoID uint) ([]domain.PullRequest, error) {
	args := m.Called(ctx, repoID)
	prs, _ := args.Get(0).([]domain.PullRequest)
	return prs, args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// ContributorStore mock
type ContributorStore struct {
	mock.Mock
}

func (m *ContributorStore) BumpContributor(ctx context.Context, repoID uint, username string, delta int64) (*domain.Contributor, error) {
	args := m.Called(ctx, repoID, username, delta)
	c, _ := args.Get(0).(*domain.Contributor)
	return c, args.Error(1)
}

func (m *ContributorStore) SyncContributorTotal(ctx context.Context, repoID uint, username string, total int64) (*domain.Contributor, error) {
	args := m.Called(ctx, repoID, username, total)
	c, _ := args.Get(0).(*domain.Contributor)
	return c, args.Error(1)
}

func (m *ContributorStore) TopContributors(ctx context.Context, repoID uint, limit int) ([]domain.Contributor, error) {
	args := m.Called(ctx, repoID, limit)
	top, _ := args.Get(0).([]domain.Contributor)
	return top, args.Error(1)
}

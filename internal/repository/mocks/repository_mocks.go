package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// RepositoryStore mock
type RepositoryStore struct {
	mock.Mock
}

func (m *RepositoryStore) UpsertRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error) {
	args := m.Called(ctx, repo)
	return repoArg(args, 0), args.Error(1)
}

func (m *RepositoryStore) RepoByName(ctx context.Context, owner, name string) (*domain.Repository, error) {
	args := m.Called(ctx, owner, name)
	return repoArg(args, 0), args.Error(1)
}

func (m *RepositoryStore) RepoByPublicID(ctx context.Context, publicID string) (*domain.Repository, error) {
	args := m.Called(ctx, publicID)
	return repoArg(args, 0), args.Error(1)
}

func (m *RepositoryStore) AllRepos(ctx context.Context) ([]domain.Repository, error) {
	args := m.Called(ctx)
	repos, _ := args.Get(0).([]domain.Repository)
	return repos, args.Error(1)
}

func (m *RepositoryStore) CountRepos(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepositoryStore) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func repoArg(args mock.Arguments, i int) *domain.Repository {
	repo, _ := args.Get(i).(*domain.Repository)
	return repo
}

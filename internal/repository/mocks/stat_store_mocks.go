package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// StatStore mock
type StatStore struct {
	mock.Mock
}

func (m *StatStore) CountsAsOf(ctx context.Context, repoID uint, until time.Time) (domain.RepoStat, error) {
	args := m.Called(ctx, repoID, until)
	return args.Get(0).(domain.RepoStat), args.Error(1)
}

func (m *StatStore) SaveStat(ctx context.Context, stat domain.RepoStat) (*domain.RepoStat, error) {
	args := m.Called(ctx, stat)
	stored, _ := args.Get(0).(*domain.RepoStat)
	return stored, args.Error(1)
}

func (m *StatStore) StatsByRepository(ctx context.Context, repoID uint) ([]domain.RepoStat, error) {
	args := m.Called(ctx, repoID)
	stats, _ := args.Get(0).([]domain.RepoStat)
	return stats, args.Error(1)
}

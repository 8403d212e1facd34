package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
)

// ContributionStore mock
type ContributionStore struct {
	mock.Mock
}

func (m *ContributionStore) PeriodByID(ctx context.Context, id uint) (*domain.ContributionPeriod, error) {
	args := m.Called(ctx, id)
	period, _ := args.Get(0).(*domain.ContributionPeriod)
	return period, args.Error(1)
}

func (m *ContributionStore) PeriodsByRepository(ctx context.Context, repoID uint) ([]domain.ContributionPeriod, error) {
	args := m.Called(ctx, repoID)
	periods, _ := args.Get(0).([]domain.ContributionPeriod)
	return periods, args.Error(1)
}

func (m *ContributionStore) PeriodContributions(ctx context.Context, periodID uint) ([]domain.DeveloperContribution, error) {
	args := m.Called(ctx, periodID)
	rows, _ := args.Get(0).([]domain.DeveloperContribution)
	return rows, args.Error(1)
}

func (m *ContributionStore) RefreshPeriod(ctx context.Context, period domain.ContributionPeriod, fold repository.PeriodFold) (*domain.ContributionPeriod, []domain.DeveloperContribution, error) {
	args := m.Called(ctx, period, fold)
	stored, _ := args.Get(0).(*domain.ContributionPeriod)
	saved, _ := args.Get(1).([]domain.DeveloperContribution)
	return stored, saved, args.Error(2)
}

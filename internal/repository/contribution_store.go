package repository

import (
	"context"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// PeriodFold turns a period's raw activity counts and the repository's known
// usernames into the developer rows to store.
type PeriodFold func(period *domain.ContributionPeriod, counts []domain.ActivityCount, known []string) []domain.DeveloperContribution

type ContributionStore interface {
	// RefreshPeriod creates or reuses the period, counts its raw facts per
	// username and kind, and replaces its developer rows with fold's result.
	RefreshPeriod(ctx context.Context, period domain.ContributionPeriod, fold PeriodFold) (*domain.ContributionPeriod, []domain.DeveloperContribution, error)
	PeriodByID(ctx context.Context, id uint) (*domain.ContributionPeriod, error)
	PeriodsByRepository(ctx context.Context, repoID uint) ([]domain.ContributionPeriod, error)
	PeriodContributions(ctx context.Context, periodID uint) ([]domain.DeveloperContribution, error)
}

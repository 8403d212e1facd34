package repository

import (
	"context"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

type ContributorStore interface {
	// BumpContributor atomically adds delta, creating the row at zero first.
	BumpContributor(ctx context.Context, repoID uint, username string, delta int64) (*domain.Contributor, error)
	// SyncContributorTotal raises the counter to total and never lowers it.
	SyncContributorTotal(ctx context.Context, repoID uint, username string, total int64) (*domain.Contributor, error)
	TopContributors(ctx context.Context, repoID uint, limit int) ([]domain.Contributor, error)
}

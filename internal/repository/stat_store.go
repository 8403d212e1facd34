package repository

import (
	"context"
	"time"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

type StatStore interface {
	// CountsAsOf counts raw facts created before until.
	CountsAsOf(ctx context.Context, repoID uint, until time.Time) (domain.RepoStat, error)
	SaveStat(ctx context.Context, stat domain.RepoStat) (*domain.RepoStat, error)
	StatsByRepository(ctx context.Context, repoID uint) ([]domain.RepoStat, error)
}

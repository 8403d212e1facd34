package repository

import (
	"context"
	"time"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// RepositoryStore defines an interface for repository persistence
type RepositoryStore interface {
	UpsertRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error)
	RepoByName(ctx context.Context, owner, name string) (*domain.Repository, error)
	RepoByPublicID(ctx context.Context, publicID string) (*domain.Repository, error)
	AllRepos(ctx context.Context) ([]domain.Repository, error)
	CountRepos(ctx context.Context) (int64, error)
	MarkSynced(ctx context.Context, id uint, at time.Time) error
}

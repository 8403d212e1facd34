package repository

import (
	"context"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/http/dtos"
)

// CommitStore defines an interface for commit persistence
type CommitStore interface {
	// SaveCommit stores a commit with its files and bumps its author's
	// contributor counter. The bool is false when the commit already existed
	// and nothing was written.
	SaveCommit(ctx context.Context, commit domain.Commit) (*domain.Commit, bool, error)
	GetCommit(ctx context.Context, repoID uint, sha string) (*domain.Commit, error)
	GetCommitsByRepository(ctx context.Context, repo domain.Repository, query dtos.APIPagingDto) (*dtos.MultiCommitsResponse, error)
	CriticalFiles(ctx context.Context, repoID uint, limit int) ([]domain.CriticalFile, error)
	CommitsPerAuthor(ctx context.Context, repoID uint) ([]domain.AuthorCommits, error)
}

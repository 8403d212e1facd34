package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/http/dtos"
)

// CommitStore mock
type CommitStore struct {
	mock.Mock
}

func (m *CommitStore) SaveCommit(ctx context.Context, commit domain.Commit) (*domain.Commit, bool, error) {
	args := m.Called(ctx, commit)
	stored, _ := args.Get(0).(*domain.Commit)
	return stored, args.Bool(1), args.Error(2)
}

func (m *CommitStore) GetCommit(ctx context.Context, repoID uint, sha string) (*domain.Commit, error) {
	args := m.Called(ctx, repoID, sha)
	commit, _ := args.Get(0).(*domain.Commit)
	return commit, args.Error(1)
}

func (m *CommitStore) GetCommitsByRepository(ctx context.Context, repo domain.Repository, query dtos.APIPagingDto) (*dtos.MultiCommitsResponse, error) {
	args := m.Called(ctx, repo, query)
	resp, _ := args.Get(0).(*dtos.MultiCommitsResponse)
	return resp, args.Error(1)
}

func (m *CommitStore) CriticalFiles(ctx context.Context, repoID uint, limit int) ([]domain.CriticalFile, error) {
	args := m.Called(ctx, repoID, limit)
	files, _ := args.Get(0).([]domain.CriticalFile)
	return files, args.Error(1)
}

func (m *CommitStore) CommitsPerAuthor(ctx context.Context, repoID uint) ([]domain.AuthorCommits, error) {
	args := m.Called(ctx, repoID)
	authors, _ := args.Get(0).([]domain.AuthorCommits)
	return authors, args.Error(1)
}

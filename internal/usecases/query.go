package usecases

import (
	"context"

	"github.com/google/uuid"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

const (
	DefaultTopN = 10
	MaxTopN     = 100
)

type QueryUsecase interface {
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error)
	GetRepositoryByPublicID(ctx context.Context, publicID string) (*domain.Repository, error)
	Commits(ctx context.Context, owner, name string, query dtos.APIPagingDto) (*dtos.MultiCommitsResponse, error)
	Commit(ctx context.Context, owner, name, sha string) (*domain.Commit, error)
	PullRequests(ctx context.Context, owner, name string) ([]domain.PullRequest, error)
	TopContributors(ctx context.Context, owner, name string, n int) ([]domain.Contributor, error)
	Periods(ctx context.Context, owner, name string) ([]domain.ContributionPeriod, error)
	PeriodContributions(ctx context.Context, periodID uint) ([]domain.DeveloperContribution, error)
	Stats(ctx context.Context, owner, name string) ([]domain.RepoStat, error)
	CriticalFiles(ctx context.Context, owner, name string, n int) ([]domain.CriticalFile, error)
	BusFactor(ctx context.Context, owner, name string) (*domain.BusFactor, error)
}

type queryUsecase struct {
	repositoryStore   repository.RepositoryStore
	commitStore       repository.CommitStore
	activityStore     repository.ActivityStore
	contributorStore  repository.ContributorStore
	contributionStore repository.ContributionStore
	statStore         repository.StatStore
	policy            storePolicy
}

func NewQueryUsecase(repositoryStore repository.RepositoryStore, commitStore repository.CommitStore,
	activityStore repository.ActivityStore, contributorStore repository.ContributorStore, contributionStore repository.ContributionStore,
	statStore repository.StatStore, cfg config.Config) QueryUsecase {
	return &queryUsecase{
		repositoryStore:   repositoryStore,
		commitStore:       commitStore,
		activityStore:     activityStore,
		contributorStore:  contributorStore,
		contributionStore: contributionStore,
		statStore:         statStore,
		policy:            newStorePolicy(cfg.DB),
	}
}

func (uc *queryUsecase) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	return call(ctx, uc.policy, uc.repositoryStore.AllRepos)
}

func (uc *queryUsecase) GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	if owner == "" || name == "" {
		return nil, errcodes.ErrInvalidRepositoryName
	}
	return call(ctx, uc.policy, func(ctx context.Context) (*domain.Repository, error) {
		return uc.repositoryStore.RepoByName(ctx, owner, name)
	})
}

func (uc *queryUsecase) GetRepositoryByPublicID(ctx context.Context, publicID string) (*domain.Repository, error) {
	if _, err := uuid.Parse(publicID); err != nil {
		return nil, errcodes.Validation("id", "must be a UUID")
	}
	return call(ctx, uc.policy, func(ctx context.Context) (*domain.Repository, error) {
		return uc.repositoryStore.RepoByPublicID(ctx, publicID)
	})
}

// withRepo resolves owner/name and runs fn against it under one timeout.
func withRepo[T any](ctx context.Context, uc *queryUsecase, owner, name string, fn func(context.Context, domain.Repository) (T, error)) (T, error) {
	var zero T
	if owner == "" || name == "" {
		return zero, errcodes.ErrInvalidRepositoryName
	}
	return call(ctx, uc.policy, func(ctx context.Context) (T, error) {
		repo, err := uc.repositoryStore.RepoByName(ctx, owner, name)
		if err != nil {
			return zero, err
		}
		return fn(ctx, *repo)
	})
}

func (uc *queryUsecase) Commits(ctx context.Context, owner, name string, query dtos.APIPagingDto) (*dtos.MultiCommitsResponse, error) {
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) (*dtos.MultiCommitsResponse, error) {
		return uc.commitStore.GetCommitsByRepository(ctx, repo, query)
	})
}

func (uc *queryUsecase) Commit(ctx context.Context, owner, name, sha string) (*domain.Commit, error) {
	if sha == "" {
		return nil, errcodes.Validation("sha", "is required")
	}
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) (*domain.Commit, error) {
		return uc.commitStore.GetCommit(ctx, repo.ID, sha)
	})
}

func (uc *queryUsecase) PullRequests(ctx context.Context, owner, name string) ([]domain.PullRequest, error) {
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) ([]domain.PullRequest, error) {
		return uc.activityStore.PullRequestsByRepository(ctx, repo.ID)
	})
}

func (uc *queryUsecase) TopContributors(ctx context.Context, owner, name string, n int) ([]domain.Contributor, error) {
	n = clampTopN(n)
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) ([]domain.Contributor, error) {
		return uc.contributorStore.TopContributors(ctx, repo.ID, n)
	})
}

func (uc *queryUsecase) Periods(ctx context.Context, owner, name string) ([]domain.ContributionPeriod, error) {
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) ([]domain.ContributionPeriod, error) {
		return uc.contributionStore.PeriodsByRepository(ctx, repo.ID)
	})
}

func (uc *queryUsecase) PeriodContributions(ctx context.Context, periodID uint) ([]domain.DeveloperContribution, error) {
	return call(ctx, uc.policy, func(ctx context.Context) ([]domain.DeveloperContribution, error) {
		if _, err := uc.contributionStore.PeriodByID(ctx, periodID); err != nil {
			return nil, err
		}
		return uc.contributionStore.PeriodContributions(ctx, periodID)
	})
}

func (uc *queryUsecase) Stats(ctx context.Context, owner, name string) ([]domain.RepoStat, error) {
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) ([]domain.RepoStat, error) {
		return uc.statStore.StatsByRepository(ctx, repo.ID)
	})
}

func (uc *queryUsecase) CriticalFiles(ctx context.Context, owner, name string, n int) ([]domain.CriticalFile, error) {
	n = clampTopN(n)
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) ([]domain.CriticalFile, error) {
		return uc.commitStore.CriticalFiles(ctx, repo.ID, n)
	})
}

func (uc *queryUsecase) BusFactor(ctx context.Context, owner, name string) (*domain.BusFactor, error) {
	return withRepo(ctx, uc, owner, name, func(ctx context.Context, repo domain.Repository) (*domain.BusFactor, error) {
		authors, err := uc.commitStore.CommitsPerAuthor(ctx, repo.ID)
		if err != nil {
			return nil, err
		}
		bf := domain.ComputeBusFactor(authors)
		return &bf, nil
	})
}

func clampTopN(n int) int {
	switch {
	case n <= 0:
		return DefaultTopN
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}

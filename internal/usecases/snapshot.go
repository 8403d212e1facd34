package usecases

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

type SnapshotUsecase interface {
	// TakeSnapshot records the repository's counts as of the end of date.
	// A second snapshot on the same date overwrites the first.
	TakeSnapshot(ctx context.Context, repoID uint, date time.Time) (*domain.RepoStat, error)
	SnapshotAll(ctx context.Context, date time.Time) ([]domain.RepoStat, error)
}

type snapshotUsecase struct {
	repositoryStore repository.RepositoryStore
	statStore       repository.StatStore
	concurrency     int
	policy          storePolicy
}

func NewSnapshotUsecase(repositoryStore repository.RepositoryStore, statStore repository.StatStore, cfg config.Config) SnapshotUsecase {
	return &snapshotUsecase{
		repositoryStore: repositoryStore,
		statStore:       statStore,
		concurrency:     cfg.SyncConcurrency,
		policy:          newStorePolicy(cfg.DB),
	}
}

func (uc *snapshotUsecase) TakeSnapshot(ctx context.Context, repoID uint, date time.Time) (*domain.RepoStat, error) {
	if repoID == 0 {
		return nil, errcodes.Validation("repo_id", "is required")
	}
	if date.IsZero() {
		return nil, errcodes.Validation("date", "is required")
	}
	snapshotDate := domain.Day(date)

	stat, err := call(ctx, uc.policy, func(ctx context.Context) (*domain.RepoStat, error) {
		counts, err := uc.statStore.CountsAsOf(ctx, repoID, snapshotDate.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		counts.RepoID = repoID
		counts.SnapshotDate = snapshotDate
		return uc.statStore.SaveStat(ctx, counts)
	})
	if err != nil {
		log.Error().Err(err).Uint("repo_id", repoID).Time("date", snapshotDate).Msg("snapshot failed")
		return nil, err
	}
	return stat, nil
}

func (uc *snapshotUsecase) SnapshotAll(ctx context.Context, date time.Time) ([]domain.RepoStat, error) {
	repos, err := call(ctx, uc.policy, uc.repositoryStore.AllRepos)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RepoStat, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(uc.concurrency, 1))
	for i, repo := range repos {
		g.Go(func() error {
			stat, err := uc.TakeSnapshot(gctx, repo.ID, date)
			if err != nil {
				return err
			}
			results[i] = *stat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("repositories", len(repos)).Time("date", domain.Day(date)).Msg("snapshots taken")
	return results, nil
}

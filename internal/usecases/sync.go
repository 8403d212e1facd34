package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// Source is the upstream the raw facts are read from. Paged calls return the
// next page number, 0 once the last page has been served.
type Source interface {
	FetchRepository(ctx context.Context, owner, name string) (*domain.Repository, error)
	FetchCommits(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.Commit, int, error)
	FetchPullRequests(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.PullRequest, int, error)
	FetchIssues(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.Issue, int, error)
	FetchReviews(ctx context.Context, owner, name string, number, page int) ([]domain.Review, int, error)
	FetchContributors(ctx context.Context, owner, name string, page int) ([]domain.Contributor, int, error)
}

type SyncUsecase interface {
	// SyncRepository registers owner/name and ingests everything changed since
	// since. A zero since resumes from the last sync.
	SyncRepository(ctx context.Context, owner, name string, since time.Time) (*domain.Repository, error)
	// Track registers the repository and runs the ingestion in the background.
	Track(ctx context.Context, owner, name string, since time.Time) (*domain.Repository, error)
	ResumeAll(ctx context.Context) error
	Monitor(ctx context.Context, interval time.Duration) error
	// Wait blocks until every background sync started by Track has returned.
	Wait()
}

type syncUsecase struct {
	source          Source
	ingestion       IngestionUsecase
	repositoryStore repository.RepositoryStore
	config          config.Config
	now             func() time.Time

	// lifecycle outlives the requests that call Track and ends on shutdown.
	lifecycle  context.Context
	background sync.WaitGroup
}

// NewSyncUsecase binds background syncs to ctx: once it is done they stop.
func NewSyncUsecase(ctx context.Context, source Source, ingestion IngestionUsecase, repositoryStore repository.RepositoryStore, cfg config.Config) SyncUsecase {
	return &syncUsecase{
		source:          source,
		ingestion:       ingestion,
		repositoryStore: repositoryStore,
		config:          cfg,
		now:             time.Now,
		lifecycle:       ctx,
	}
}

func (uc *syncUsecase) register(ctx context.Context, owner, name string) (*domain.Repository, error) {
	if owner == "" || name == "" {
		return nil, errcodes.ErrInvalidRepositoryName
	}

	meta, err := uc.source.FetchRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	meta.Owner, meta.Name = owner, name

	return uc.ingestion.UpsertRepository(ctx, *meta)
}

func (uc *syncUsecase) SyncRepository(ctx context.Context, owner, name string, since time.Time) (*domain.Repository, error) {
	repo, err := uc.register(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if err := uc.ingest(ctx, *repo, since); err != nil {
		return nil, err
	}
	return repo, nil
}

func (uc *syncUsecase) Track(ctx context.Context, owner, name string, since time.Time) (*domain.Repository, error) {
	repo, err := uc.register(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	uc.background.Add(1)
	go func(repo domain.Repository) {
		defer uc.background.Done()

		ctx, cancel := uc.backgroundContext()
		defer cancel()
		if err := uc.ingest(ctx, repo, since); err != nil {
			log.Error().Err(err).Str("repository", repo.FullName()).Msg("background sync failed")
		}
	}(*repo)

	return repo, nil
}

func (uc *syncUsecase) backgroundContext() (context.Context, context.CancelFunc) {
	if uc.config.SyncTimeout <= 0 {
		return context.WithCancel(uc.lifecycle)
	}
	return context.WithTimeout(uc.lifecycle, uc.config.SyncTimeout)
}

func (uc *syncUsecase) Wait() {
	uc.background.Wait()
}

func (uc *syncUsecase) resolveSince(repo domain.Repository, since time.Time) time.Time {
	switch {
	case !since.IsZero():
		return since
	case repo.LastSyncedAt != nil:
		return *repo.LastSyncedAt
	default:
		return uc.config.DefaultStartDate
	}
}

func (uc *syncUsecase) ingest(ctx context.Context, repo domain.Repository, since time.Time) error {
	startedAt := uc.now()
	since = uc.resolveSince(repo, since)
	logger := log.With().Str("repository", repo.FullName()).Time("since", since).Logger()
	logger.Info().Msg("sync started")

	var commits, prs, reviews, issues int
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eachPage(gctx, func(ctx context.Context, page int) ([]domain.Commit, int, error) {
			return uc.source.FetchCommits(ctx, repo.Owner, repo.Name, since, page)
		}, func(c domain.Commit) error {
			c.RepoID = repo.ID
			_, created, err := uc.ingestion.RecordCommit(gctx, c)
			if created {
				commits++
			}
			return err
		})
	})

	g.Go(func() error {
		return eachPage(gctx, func(ctx context.Context, page int) ([]domain.PullRequest, int, error) {
			return uc.source.FetchPullRequests(ctx, repo.Owner, repo.Name, since, page)
		}, func(pr domain.PullRequest) error {
			pr.RepoID = repo.ID
			if _, err := uc.ingestion.UpsertPullRequest(gctx, pr); err != nil {
				return err
			}
			prs++

			return eachPage(gctx, func(ctx context.Context, page int) ([]domain.Review, int, error) {
				return uc.source.FetchReviews(ctx, repo.Owner, repo.Name, pr.Number, page)
			}, func(r domain.Review) error {
				r.RepoID = repo.ID
				r.PRNumber = pr.Number
				if _, err := uc.ingestion.RecordReview(gctx, r); err != nil {
					return err
				}
				reviews++
				return nil
			})
		})
	})

	g.Go(func() error {
		return eachPage(gctx, func(ctx context.Context, page int) ([]domain.Issue, int, error) {
			return uc.source.FetchIssues(ctx, repo.Owner, repo.Name, since, page)
		}, func(issue domain.Issue) error {
			issue.RepoID = repo.ID
			if _, err := uc.ingestion.UpsertIssue(gctx, issue); err != nil {
				return err
			}
			issues++
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("sync failed")
		return err
	}

	// Totals reported upstream only raise the counters the stored commits bumped.
	err := eachPage(ctx, func(ctx context.Context, page int) ([]domain.Contributor, int, error) {
		return uc.source.FetchContributors(ctx, repo.Owner, repo.Name, page)
	}, func(c domain.Contributor) error {
		_, err := uc.ingestion.SyncContributorTotal(ctx, repo.ID, c.Username, c.Contributions)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("contributor sync failed")
		return err
	}

	if err := uc.repositoryStore.MarkSynced(ctx, repo.ID, startedAt); err != nil {
		return err
	}

	logger.Info().
		Int("commits", commits).
		Int("pull_requests", prs).
		Int("reviews", reviews).
		Int("issues", issues).
		Dur("took", uc.now().Sub(startedAt)).
		Msg("sync finished")
	return nil
}

// eachPage walks a paged fetch, handing every item to handle. Items rejected
// with a validation error are logged and skipped.
func eachPage[T any](ctx context.Context, fetch func(ctx context.Context, page int) ([]T, int, error), handle func(T) error) error {
	for page := 1; page != 0; {
		items, next, err := fetch(ctx, page)
		if err != nil {
			return err
		}
		for _, item := range items {
			err := handle(item)
			if errors.Is(err, errcodes.ErrValidation) {
				log.Warn().Err(err).Msg("skipping invalid item")
				continue
			}
			if err != nil {
				return err
			}
		}
		page = next
	}
	return nil
}

func (uc *syncUsecase) ResumeAll(ctx context.Context) error {
	repos, err := uc.repositoryStore.AllRepos(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(uc.config.SyncConcurrency, 1))
	for _, repo := range repos {
		g.Go(func() error {
			err := uc.ingest(gctx, repo, time.Time{})
			if errors.Is(err, context.Canceled) || errors.Is(err, errcodes.ErrContextCancelled) {
				return err
			}
			if err != nil {
				log.Error().Err(err).Str("repository", repo.FullName()).Msg("resume sync failed")
			}
			return nil
		})
	}
	return g.Wait()
}

// Monitor re-syncs every tracked repository each interval until ctx is done.
func (uc *syncUsecase) Monitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errcodes.Validation("interval", "must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("monitor stopped")
			return nil
		case <-ticker.C:
			if err := uc.ResumeAll(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("monitor run failed")
			}
		}
	}
}

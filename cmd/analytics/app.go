package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/github"
	applog "github.com/just-nibble/repo-analytics/pkg/log"
)

// app holds the wired stores and usecases shared by every command.
type app struct {
	config config.Config
	db     data.Database

	repositories repository.RepositoryStore

	sync        usecases.SyncUsecase
	aggregation usecases.AggregationUsecase
	snapshot    usecases.SnapshotUsecase
	query       usecases.QueryUsecase
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applog.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := data.InitDB(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	gc, err := github.NewGitHubClient(cfg.GitHub)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repoStore := repository.NewGormRepositoryStore(db.DB())
	commitStore := repository.NewGormCommitStore(db.DB())
	activityStore := repository.NewGormActivityStore(db.DB())
	contributorStore := repository.NewGormContributorStore(db.DB())
	contributionStore := repository.NewGormContributionStore(db.DB())
	statStore := repository.NewGormStatStore(db.DB())

	ingestion := usecases.NewIngestionUsecase(repoStore, commitStore, activityStore, contributorStore, cfg)

	return &app{
		config:       cfg,
		db:           db,
		repositories: repoStore,
		sync:         usecases.NewSyncUsecase(ctx, gc, ingestion, repoStore, cfg),
		aggregation:  usecases.NewAggregationUsecase(contributionStore, cfg),
		snapshot:     usecases.NewSnapshotUsecase(repoStore, statStore, cfg),
		query:        usecases.NewQueryUsecase(repoStore, commitStore, activityStore, contributorStore, contributionStore, statStore, cfg),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}

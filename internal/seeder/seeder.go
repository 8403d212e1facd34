package seeder

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/validator"
)

// SeedDatabase starts tracking DEFAULT_REPOSITORY when no repository is stored yet.
// Ingestion continues in the background.
func SeedDatabase(ctx context.Context, repoStore repository.RepositoryStore, syncUsecase usecases.SyncUsecase, cfg config.Config) error {
	if cfg.DefaultRepository == "" {
		return nil
	}

	count, err := repoStore.CountRepos(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	owner, name, err := validator.SplitRepository(cfg.DefaultRepository)
	if err != nil {
		return err
	}

	log.Info().Str("repository", cfg.DefaultRepository).Msg("seeding database")
	if _, err := syncUsecase.Track(ctx, owner, name, cfg.DefaultStartDate); err != nil {
		return err
	}

	return nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-analytics/internal/data/testdb"
	"github.com/just-nibble/repo-analytics/internal/domain"
)

type testStores struct {
	repos         RepositoryStore
	commits       CommitStore
	activity      ActivityStore
	contributors  ContributorStore
	contributions ContributionStore
	stats         StatStore
}

func newTestStores(t *testing.T) testStores {
	t.Helper()
	db := testdb.New(t).DB()
	return testStores{
		repos:         NewGormRepositoryStore(db),
		commits:       NewGormCommitStore(db),
		activity:      NewGormActivityStore(db),
		contributors:  NewGormContributorStore(db),
		contributions: NewGormContributionStore(db),
		stats:         NewGormStatStore(db),
	}
}

func (s testStores) seedRepo(t *testing.T, owner, name string) *domain.Repository {
	t.Helper()
	repo, err := s.repos.UpsertRepository(context.Background(), domain.Repository{Owner: owner, Name: name})
	require.NoError(t, err)
	return repo
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func at(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}

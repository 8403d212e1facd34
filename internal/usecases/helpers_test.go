package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-analytics/internal/data/testdb"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/pkg/config"
)

func testConfig() config.Config {
	return config.Config{
		DB: config.DBConfig{
			OperationTimeout: 5 * time.Second,
			RetryAttempts:    3,
			RetryBackoff:     time.Millisecond,
		},
		SyncConcurrency: 2,
	}
}

var hasDeadline = mock.MatchedBy(func(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
})

// app wires every usecase against an in-memory database.
type app struct {
	repos       repository.RepositoryStore
	ingestion   IngestionUsecase
	aggregation AggregationUsecase
	snapshot    SnapshotUsecase
	query       QueryUsecase
}

func newApp(t *testing.T, cfg config.Config) app {
	t.Helper()
	db := testdb.New(t).DB()

	repos := repository.NewGormRepositoryStore(db)
	commits := repository.NewGormCommitStore(db)
	activity := repository.NewGormActivityStore(db)
	contributors := repository.NewGormContributorStore(db)
	contributions := repository.NewGormContributionStore(db)
	stats := repository.NewGormStatStore(db)

	return app{
		repos:       repos,
		ingestion:   NewIngestionUsecase(repos, commits, activity, contributors, cfg),
		aggregation: NewAggregationUsecase(contributions, cfg),
		snapshot:    NewSnapshotUsecase(repos, stats, cfg),
		query:       NewQueryUsecase(repos, commits, activity, contributors, contributions, stats, cfg),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func at(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}

// sourceMock is a testify mock of Source.
type sourceMock struct {
	mock.Mock
}

func (m *sourceMock) FetchRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	args := m.Called(ctx, owner, name)
	repo, _ := args.Get(0).(*domain.Repository)
	return repo, args.Error(1)
}

func (m *sourceMock) FetchCommits(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.Commit, int, error) {
	args := m.Called(ctx, owner, name, since, page)
	commits, _ := args.Get(0).([]domain.Commit)
	return commits, args.Int(1), args.Error(2)
}

func (m *sourceMock) FetchPullRequests(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.PullRequest, int, error) {
	args := m.Called(ctx, owner, name, since, page)
	prs, _ := args.Get(0).([]domain.PullRequest)
	return prs, args.Int(1), args.Error(2)
}

func (m *sourceMock) FetchIssues(ctx context.Context, owner, name string, since time.Time, page int) ([]domain.Issue, int, error) {
	args := m.Called(ctx, owner, name, since, page)
	issues, _ := args.Get(0).([]domain.Issue)
	return issues, args.Int(1), args.Error(2)
}

func (m *sourceMock) FetchReviews(ctx context.Context, owner, name string, number, page int) ([]domain.Review, int, error) {
	args := m.Called(ctx, owner, name, number, page)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Int(1), args.Error(2)
}

func (m *sourceMock) FetchContributors(ctx context.Context, owner, name string, page int) ([]domain.Contributor, int, error) {
	args := m.Called(ctx, owner, name, page)
	contributors, _ := args.Get(0).([]domain.Contributor)
	return contributors, args.Int(1), args.Error(2)
}

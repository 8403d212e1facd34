package usecases

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-analytics/internal/data/testdb"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/internal/repository/mocks"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

func widgetsSource() *sourceMock {
	src := new(sourceMock)
	src.On("FetchRepository", mock.Anything, "acme", "widgets").
		Return(&domain.Repository{Description: "All the widgets", URL: "https://github.com/acme/widgets"}, nil)

	src.On("FetchCommits", mock.Anything, "acme", "widgets", mock.Anything, 1).Return([]domain.Commit{
		{SHA: "c1", AuthorName: "Alice", AuthorLogin: "alice", Date: at(2025, 1, 3, 9)},
		{SHA: "c2", AuthorName: "bob", Date: at(2025, 1, 4, 9)},
		{SHA: "", AuthorName: "ghost", Date: at(2025, 1, 4, 9)},
	}, 2, nil)
	src.On("FetchCommits", mock.Anything, "acme", "widgets", mock.Anything, 2).Return([]domain.Commit{
		{SHA: "c3", AuthorName: "Alice", AuthorLogin: "alice", Date: at(2025, 1, 5, 9),
			Files: []domain.CommitFile{{Filename: "widget.go", Status: domain.FileAdded, Additions: 4, Changes: 4}}},
	}, 0, nil)

	src.On("FetchPullRequests", mock.Anything, "acme", "widgets", mock.Anything, 1).Return([]domain.PullRequest{
		{Number: 1, Author: "alice", State: domain.StateOpen, Title: "More widgets", CreatedAt: at(2025, 1, 6, 9)},
	}, 0, nil)
	src.On("FetchReviews", mock.Anything, "acme", "widgets", 1, 1).Return([]domain.Review{
		{ReviewID: 11, UserID: "bob", State: "APPROVED", SubmittedAt: at(2025, 1, 7, 9)},
	}, 0, nil)

	src.On("FetchIssues", mock.Anything, "acme", "widgets", mock.Anything, 1).Return([]domain.Issue{
		{Number: 2, Author: "carol", State: domain.StateOpen, CreatedAt: at(2025, 1, 8, 9)},
	}, 0, nil)

	src.On("FetchContributors", mock.Anything, "acme", "widgets", 1).Return([]domain.Contributor{
		{Username: "alice", Contributions: 10},
		{Username: "bob", Contributions: 1},
	}, 0, nil)
	return src
}

func newSyncUnderTest(t *testing.T, src Source) (app, *syncUsecase) {
	cfg := testConfig()
	cfg.DefaultStartDate = day(2025, 1, 1)
	a := newApp(t, cfg)

	lifecycle, cancel := context.WithCancel(context.Background())
	uc := NewSyncUsecase(lifecycle, src, a.ingestion, a.repos, cfg).(*syncUsecase)
	uc.now = func() time.Time { return at(2025, 2, 1, 6) }
	t.Cleanup(func() {
		cancel()
		uc.Wait()
	})
	return a, uc
}

func TestSyncUsecase_SyncRepository(t *testing.T) {
	src := widgetsSource()
	a, uc := newSyncUnderTest(t, src)
	ctx := context.Background()

	repo, err := uc.SyncRepository(ctx, "acme", "widgets", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "All the widgets", repo.Description)

	stored, err := a.query.GetRepository(ctx, "acme", "widgets")
	require.NoError(t, err)
	require.NotNil(t, stored.LastSyncedAt)
	assert.True(t, at(2025, 2, 1, 6).Equal(*stored.LastSyncedAt))

	_, rows, err := a.aggregation.AggregatePeriod(ctx, repo.ID, day(2025, 1, 1), day(2025, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, []domain.DeveloperContribution{
		{PeriodID: rows[0].PeriodID, Username: "alice", CommitsCount: 2, PullRequestsCount: 1, ContributionsTotal: 3},
		{PeriodID: rows[0].PeriodID, Username: "bob", CommitsCount: 1, ReviewsCount: 1, ContributionsTotal: 2},
		{PeriodID: rows[0].PeriodID, Username: "carol", IssuesCount: 1, ContributionsTotal: 1},
	}, rows)

	top, err := a.query.TopContributors(ctx, "acme", "widgets", 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.Contributor{
		{ID: top[0].ID, RepoID: repo.ID, Username: "alice", Contributions: 10},
		{ID: top[1].ID, RepoID: repo.ID, Username: "bob", Contributions: 1},
	}, top)

	t.Run("resync does not double count", func(t *testing.T) {
		_, err := uc.SyncRepository(ctx, "acme", "widgets", time.Time{})
		require.NoError(t, err)

		again, err := a.query.TopContributors(ctx, "acme", "widgets", 10)
		require.NoError(t, err)
		assert.Equal(t, top, again)

		files, err := a.query.CriticalFiles(ctx, "acme", "widgets", 10)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})
}

func TestSyncUsecase_SourceFailure(t *testing.T) {
	src := new(sourceMock)
	src.On("FetchRepository", mock.Anything, "acme", "widgets").Return(&domain.Repository{}, nil)
	src.On("FetchCommits", mock.Anything, "acme", "widgets", mock.Anything, 1).Return(nil, 0, nil)
	src.On("FetchPullRequests", mock.Anything, "acme", "widgets", mock.Anything, 1).Return(nil, 0, nil)
	src.On("FetchIssues", mock.Anything, "acme", "widgets", mock.Anything, 1).Return(nil, 0, errors.New("boom"))

	a, uc := newSyncUnderTest(t, src)
	ctx := context.Background()

	_, err := uc.SyncRepository(ctx, "acme", "widgets", time.Time{})
	assert.EqualError(t, err, "boom")

	stored, err := a.query.GetRepository(ctx, "acme", "widgets")
	require.NoError(t, err)
	assert.Nil(t, stored.LastSyncedAt)
	src.AssertNotCalled(t, "FetchContributors", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncUsecase_Register(t *testing.T) {
	src := new(sourceMock)
	src.On("FetchRepository", mock.Anything, "acme", "missing").Return(nil, errcodes.ErrNoRecordFound)
	_, uc := newSyncUnderTest(t, src)

	_, err := uc.SyncRepository(context.Background(), "", "widgets", time.Time{})
	assert.ErrorIs(t, err, errcodes.ErrInvalidRepositoryName)

	_, err = uc.Track(context.Background(), "acme", "missing", time.Time{})
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)
}

func TestSyncUsecase_Track(t *testing.T) {
	src := widgetsSource()
	a, uc := newSyncUnderTest(t, src)
	ctx, cancel := context.WithCancel(context.Background())

	repo, err := uc.Track(ctx, "acme", "widgets", time.Time{})
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		stored, err := a.repos.RepoByName(context.Background(), repo.Owner, repo.Name)
		return err == nil && stored.LastSyncedAt != nil
	}, 5*time.Second, 10*time.Millisecond)
}

// blockingSource serves one repository whose commit listing hangs until the
// caller gives up.
type blockingSource struct {
	emptySource
	started chan struct{}
}

func (s blockingSource) FetchCommits(ctx context.Context, _, _ string, _ time.Time, _ int) ([]domain.Commit, int, error) {
	close(s.started)
	<-ctx.Done()
	return nil, 0, ctx.Err()
}

type emptySource struct{}

func (emptySource) FetchRepository(context.Context, string, string) (*domain.Repository, error) {
	return &domain.Repository{}, nil
}

func (emptySource) FetchCommits(context.Context, string, string, time.Time, int) ([]domain.Commit, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchPullRequests(context.Context, string, string, time.Time, int) ([]domain.PullRequest, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchIssues(context.Context, string, string, time.Time, int) ([]domain.Issue, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchReviews(context.Context, string, string, int, int) ([]domain.Review, int, error) {
	return nil, 0, nil
}

func (emptySource) FetchContributors(context.Context, string, string, int) ([]domain.Contributor, int, error) {
	return nil, 0, nil
}

func TestSyncUsecase_TrackStopsWithLifecycle(t *testing.T) {
	cfg := testConfig()
	a := newApp(t, cfg)
	src := blockingSource{started: make(chan struct{})}

	lifecycle, cancel := context.WithCancel(context.Background())
	uc := NewSyncUsecase(lifecycle, src, a.ingestion, a.repos, cfg)

	repo, err := uc.Track(context.Background(), "acme", "widgets", time.Time{})
	require.NoError(t, err)
	<-src.started

	cancel()
	uc.Wait()

	stored, err := a.repos.RepoByName(context.Background(), repo.Owner, repo.Name)
	require.NoError(t, err)
	assert.Nil(t, stored.LastSyncedAt)
}

func TestSyncUsecase_TrackTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.SyncTimeout = 20 * time.Millisecond
	a := newApp(t, cfg)
	src := blockingSource{started: make(chan struct{})}

	uc := NewSyncUsecase(context.Background(), src, a.ingestion, a.repos, cfg)
	repo, err := uc.Track(context.Background(), "acme", "widgets", time.Time{})
	require.NoError(t, err)
	uc.Wait()

	stored, err := a.repos.RepoByName(context.Background(), repo.Owner, repo.Name)
	require.NoError(t, err)
	assert.Nil(t, stored.LastSyncedAt)
}

// flakyCommitStore stores the first commit and then reports the store as
// unavailable, as when the connection drops after the transaction committed.
type flakyCommitStore struct {
	repository.CommitStore
	failed atomic.Bool
}

func (s *flakyCommitStore) SaveCommit(ctx context.Context, commit domain.Commit) (*domain.Commit, bool, error) {
	stored, created, err := s.CommitStore.SaveCommit(ctx, commit)
	if err == nil && s.failed.CompareAndSwap(false, true) {
		return nil, false, errcodes.ErrStoreUnavailable
	}
	return stored, created, err
}

func TestSyncUsecase_CommitRetryKeepsContributorCount(t *testing.T) {
	cfg := testConfig()
	db := testdb.New(t).DB()
	repos := repository.NewGormRepositoryStore(db)
	contributors := repository.NewGormContributorStore(db)
	commits := &flakyCommitStore{CommitStore: repository.NewGormCommitStore(db)}
	ingestion := NewIngestionUsecase(repos, commits, repository.NewGormActivityStore(db), contributors, cfg)

	src := new(sourceMock)
	src.On("FetchRepository", mock.Anything, "acme", "widgets").Return(&domain.Repository{}, nil)
	src.On("FetchCommits", mock.Anything, "acme", "widgets", mock.Anything, 1).Return([]domain.Commit{
		{SHA: "c1", AuthorName: "dave", Date: at(2025, 1, 3, 9)},
	}, 0, nil)
	src.On("FetchPullRequests", mock.Anything, "acme", "widgets", mock.Anything, 1).Return(nil, 0, nil)
	src.On("FetchIssues", mock.Anything, "acme", "widgets", mock.Anything, 1).Return(nil, 0, nil)
	src.On("FetchContributors", mock.Anything, "acme", "widgets", 1).Return(nil, 0, nil)

	uc := NewSyncUsecase(context.Background(), src, ingestion, repos, cfg)
	repo, err := uc.SyncRepository(context.Background(), "acme", "widgets", time.Time{})
	require.NoError(t, err)
	assert.True(t, commits.failed.Load())

	top, err := contributors.TopContributors(context.Background(), repo.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "dave", top[0].Username)
	assert.Equal(t, int64(1), top[0].Contributions)
}

func TestSyncUsecase_ResolveSince(t *testing.T) {
	_, uc := newSyncUnderTest(t, new(sourceMock))
	synced := at(2025, 1, 20, 0)
	explicit := at(2025, 1, 10, 0)

	assert.Equal(t, explicit, uc.resolveSince(domain.Repository{LastSyncedAt: &synced}, explicit))
	assert.Equal(t, synced, uc.resolveSince(domain.Repository{LastSyncedAt: &synced}, time.Time{}))
	assert.Equal(t, day(2025, 1, 1), uc.resolveSince(domain.Repository{}, time.Time{}))
}

func TestSyncUsecase_Monitor(t *testing.T) {
	repos := new(mocks.RepositoryStore)
	var runs atomic.Int32
	repos.On("AllRepos", mock.Anything).Return([]domain.Repository{}, nil).Run(func(mock.Arguments) {
		runs.Add(1)
	})

	uc := NewSyncUsecase(context.Background(), new(sourceMock), nil, repos, testConfig())

	err := uc.Monitor(context.Background(), 0)
	assert.ErrorIs(t, err, errcodes.ErrValidation)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.Monitor(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

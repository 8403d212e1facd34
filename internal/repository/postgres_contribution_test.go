package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// fixedRows ignores the counted activity and stores rows as given.
func fixedRows(rows ...domain.DeveloperContribution) PeriodFold {
	return func(*domain.ContributionPeriod, []domain.ActivityCount, []string) []domain.DeveloperContribution {
		return rows
	}
}

func TestGormContributionStore_CountsActivityInWindow(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	repo := stores.seedRepo(t, "acme", "widgets")

	for _, c := range []domain.Commit{
		{SHA: "c1", AuthorLogin: "alice", Date: at(2025, 1, 1, 9)},
		{SHA: "c2", AuthorName: "bob", Date: at(2025, 1, 2, 9)},
		{SHA: "c3", AuthorLogin: "alice", Date: at(2025, 1, 31, 23)},
		{SHA: "c4", AuthorLogin: "alice", Date: at(2025, 2, 1, 0)},
	} {
		c.RepoID = repo.ID
		_, _, err := stores.commits.SaveCommit(ctx, c)
		require.NoError(t, err)
	}
	_, err := stores.activity.UpsertPullRequest(ctx, domain.PullRequest{RepoID: repo.ID, Number: 1, Author: "alice", State: domain.StateOpen, CreatedAt: at(2025, 1, 10, 9)})
	require.NoError(t, err)
	_, err = stores.activity.UpsertReview(ctx, domain.Review{RepoID: repo.ID, PRNumber: 1, ReviewID: 1, UserID: "bob", SubmittedAt: at(2025, 1, 11, 9)})
	require.NoError(t, err)

	var counts []domain.ActivityCount
	_, _, err = stores.contributions.RefreshPeriod(ctx,
		domain.ContributionPeriod{RepoID: repo.ID, StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 31)},
		func(_ *domain.ContributionPeriod, got []domain.ActivityCount, _ []string) []domain.DeveloperContribution {
			counts = got
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []domain.ActivityCount{
		{Username: "alice", Kind: domain.ActivityCommit, Count: 2},
		{Username: "alice", Kind: domain.ActivityPullRequest, Count: 1},
		{Username: "bob", Kind: domain.ActivityCommit, Count: 1},
		{Username: "bob", Kind: domain.ActivityReview, Count: 1},
	}, counts)
}

func TestGormContributionStore_StoresFoldedRows(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	repo := stores.seedRepo(t, "acme", "widgets")

	period := domain.ContributionPeriod{RepoID: repo.ID, StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 31)}
	rows := fixedRows(
		domain.DeveloperContribution{Username: "alice", CommitsCount: 3, PullRequestsCount: 1, IssuesCount: 1},
		domain.DeveloperContribution{Username: "bob", CommitsCount: 2},
	)

	stored, saved, err := stores.contributions.RefreshPeriod(ctx, period, rows)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, 5, saved[0].ContributionsTotal)

	t.Run("rerun overwrites and drops stale rows", func(t *testing.T) {
		again, _, err := stores.contributions.RefreshPeriod(ctx, period, fixedRows(
			domain.DeveloperContribution{Username: "alice", CommitsCount: 4},
		))
		require.NoError(t, err)
		assert.Equal(t, stored.ID, again.ID)

		got, err := stores.contributions.PeriodContributions(ctx, stored.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alice", got[0].Username)
		assert.Equal(t, 4, got[0].CommitsCount)
		assert.Equal(t, 4, got[0].ContributionsTotal)
	})

	t.Run("periods listing", func(t *testing.T) {
		periods, err := stores.contributions.PeriodsByRepository(ctx, repo.ID)
		require.NoError(t, err)
		require.Len(t, periods, 1)

		got, err := stores.contributions.PeriodByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.True(t, period.StartDate.Equal(got.StartDate))

		_, err = stores.contributions.PeriodByID(ctx, 999)
		assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, _, err := stores.contributions.RefreshPeriod(ctx, domain.ContributionPeriod{
			RepoID: repo.ID, StartDate: day(2025, 2, 1), EndDate: day(2025, 1, 1),
		}, fixedRows())
		assert.ErrorIs(t, err, errcodes.ErrValidation)
	})

	t.Run("unknown repository", func(t *testing.T) {
		orphan := period
		orphan.RepoID = 99
		_, _, err := stores.contributions.RefreshPeriod(ctx, orphan, rows)
		assert.ErrorIs(t, err, errcodes.ErrForeignKey)
	})
}

func TestGormContributionStore_RefreshPeriod(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	repo := stores.seedRepo(t, "acme", "widgets")

	_, _, err := stores.commits.SaveCommit(ctx, domain.Commit{RepoID: repo.ID, SHA: "c1", AuthorLogin: "alice", Date: at(2025, 1, 15, 9)})
	require.NoError(t, err)
	_, err = stores.contributors.BumpContributor(ctx, repo.ID, "dave", 1)
	require.NoError(t, err)

	var gotCounts []domain.ActivityCount
	var gotKnown []string
	period, rows, err := stores.contributions.RefreshPeriod(ctx,
		domain.ContributionPeriod{RepoID: repo.ID, StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 31)},
		func(p *domain.ContributionPeriod, counts []domain.ActivityCount, known []string) []domain.DeveloperContribution {
			gotCounts, gotKnown = counts, known
			return domain.BuildContributions(p.ID, counts, known, true)
		})
	require.NoError(t, err)
	assert.NotZero(t, period.ID)
	assert.Equal(t, []domain.ActivityCount{{Username: "alice", Kind: domain.ActivityCommit, Count: 1}}, gotCounts)
	assert.Equal(t, []string{"alice", "dave"}, gotKnown)

	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, 1, rows[0].ContributionsTotal)
	assert.Equal(t, "dave", rows[1].Username)
	assert.Zero(t, rows[1].ContributionsTotal)
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// activityQuery attributes every raw fact in a window to a username in one
// statement, so the four kinds are counted against the same view of the data.
const activityQuery = `
SELECT username, kind, COUNT(*) AS total FROM (
	SELECT ` + commitAuthorExpr + ` AS username, 'commit' AS kind
	FROM commits WHERE commits.repo_id = ? AND commits.date >= ? AND commits.date < ?
	UNION ALL
	SELECT pull_requests.author AS username, 'pull_request' AS kind
	FROM pull_requests WHERE pull_requests.repo_id = ? AND pull_requests.created_at >= ? AND pull_requests.created_at < ?
	UNION ALL
	SELECT issues.author AS username, 'issue' AS kind
	FROM issues WHERE issues.repo_id = ? AND issues.created_at >= ? AND issues.created_at < ?
	UNION ALL
	SELECT reviews.user_id AS username, 'review' AS kind
	FROM reviews WHERE reviews.repo_id = ? AND reviews.submitted_at >= ? AND reviews.submitted_at < ?
) activity
WHERE username IS NOT NULL AND username <> ''
GROUP BY username, kind
ORDER BY username, kind`

// GormContributionStore is a GORM-based implementation of ContributionStore
type GormContributionStore struct {
	db *gorm.DB
}

// NewGormContributionStore initializes a new GormContributionStore
func NewGormContributionStore(db *gorm.DB) ContributionStore {
	return &GormContributionStore{db: db}
}

type activityRow struct {
	Username string
	Kind     string
	Total    int
}

func activityCounts(db *gorm.DB, repoID uint, from, to time.Time) ([]domain.ActivityCount, error) {
	from, to = from.UTC(), to.UTC()

	var rows []activityRow
	err := db.Raw(activityQuery,
		repoID, from, to,
		repoID, from, to,
		repoID, from, to,
		repoID, from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]domain.ActivityCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, domain.ActivityCount{Username: r.Username, Kind: domain.ActivityKind(r.Kind), Count: r.Total})
	}
	return counts, nil
}

type savedPeriod struct {
	period *data.ContributionPeriod
	rows   []data.DeveloperContribution
}

// RefreshPeriod counts the period's activity, folds it into rows with fold and
// replaces the stored rows, all in one transaction.
func (s *GormContributionStore) RefreshPeriod(ctx context.Context, period domain.ContributionPeriod, fold PeriodFold) (*domain.ContributionPeriod, []domain.DeveloperContribution, error) {
	start, end := domain.Day(period.StartDate), domain.Day(period.EndDate)
	if start.After(end) {
		return nil, nil, errcodes.Validation("start_date", "must not be after end_date")
	}

	saved, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (savedPeriod, error) {
		if err := requireRepository(tx, period.RepoID); err != nil {
			return savedPeriod{}, err
		}

		stored, err := ensurePeriod(tx, period.RepoID, start, end)
		if err != nil {
			return savedPeriod{}, err
		}

		from, to := stored.ToDomain().Bounds()
		counts, err := activityCounts(tx, period.RepoID, from, to)
		if err != nil {
			return savedPeriod{}, err
		}

		known, err := contributorUsernames(tx, period.RepoID)
		if err != nil {
			return savedPeriod{}, err
		}

		rows, err := replaceContributions(tx, stored.ID, fold(stored.ToDomain(), counts, known))
		if err != nil {
			return savedPeriod{}, err
		}
		return savedPeriod{period: stored, rows: rows}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	contributions := make([]domain.DeveloperContribution, 0, len(saved.rows))
	for _, r := range saved.rows {
		contributions = append(contributions, r.ToDomain())
	}
	return saved.period.ToDomain(), contributions, nil
}

func ensurePeriod(tx *gorm.DB, repoID uint, start, end time.Time) (*data.ContributionPeriod, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "repo_id"}, {Name: "start_date"}, {Name: "end_date"}},
		DoNothing: true,
	}).Create(&data.ContributionPeriod{RepoID: repoID, StartDate: start, EndDate: end}).Error
	if err != nil {
		return nil, err
	}

	var stored data.ContributionPeriod
	err = tx.Where("repo_id = ? AND start_date = ? AND end_date = ?", repoID, start, end).First(&stored).Error
	return &stored, err
}

// replaceContributions upserts rows and deletes the period's rows for every
// other username.
func replaceContributions(tx *gorm.DB, periodID uint, rows []domain.DeveloperContribution) ([]data.DeveloperContribution, error) {
	dbRows := make([]data.DeveloperContribution, 0, len(rows))
	usernames := make([]string, 0, len(rows))
	for _, row := range rows {
		dbRows = append(dbRows, data.ToGormDeveloperContribution(periodID, row))
		usernames = append(usernames, row.Username)
	}

	stale := tx.Where("contribution_period_id = ?", periodID)
	if len(usernames) > 0 {
		stale = stale.Where("contributor_username NOT IN ?", usernames)
	}
	if err := stale.Delete(&data.DeveloperContribution{}).Error; err != nil {
		return nil, err
	}

	if len(dbRows) == 0 {
		return dbRows, nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "contribution_period_id"}, {Name: "contributor_username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"commits_count", "pull_requests_count", "issues_count", "reviews_count", "contributions_total",
		}),
	}).Create(&dbRows).Error
	return dbRows, err
}

func (s *GormContributionStore) PeriodByID(ctx context.Context, id uint) (*domain.ContributionPeriod, error) {
	var period data.ContributionPeriod
	err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&period).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}
	if period.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return period.ToDomain(), nil
}

func (s *GormContributionStore) PeriodsByRepository(ctx context.Context, repoID uint) ([]domain.ContributionPeriod, error) {
	var rows []data.ContributionPeriod
	err := s.db.WithContext(ctx).Where("repo_id = ?", repoID).Order("start_date DESC, end_date DESC").Find(&rows).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	periods := make([]domain.ContributionPeriod, 0, len(rows))
	for _, r := range rows {
		periods = append(periods, *r.ToDomain())
	}
	return periods, nil
}

func (s *GormContributionStore) PeriodContributions(ctx context.Context, periodID uint) ([]domain.DeveloperContribution, error) {
	var rows []data.DeveloperContribution
	err := s.db.WithContext(ctx).
		Where("contribution_period_id = ?", periodID).
		Order("contributions_total DESC, contributor_username ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	contributions := make([]domain.DeveloperContribution, 0, len(rows))
	for _, r := range rows {
		contributions = append(contributions, r.ToDomain())
	}
	return contributions, nil
}

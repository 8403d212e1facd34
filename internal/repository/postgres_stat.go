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

const countsQuery = `
SELECT
	(SELECT COUNT(*) FROM commits WHERE commits.repo_id = ? AND commits.date < ?) AS commits,
	(SELECT COUNT(*) FROM issues WHERE issues.repo_id = ? AND issues.created_at < ?) AS issues,
	(SELECT COUNT(*) FROM pull_requests WHERE pull_requests.repo_id = ? AND pull_requests.created_at < ?) AS pull_requests,
	(SELECT COUNT(*) FROM issues WHERE issues.repo_id = ? AND issues.created_at < ? AND issues.state = ?) AS open_issues`

// GormStatStore is a GORM-based implementation of StatStore
type GormStatStore struct {
	db *gorm.DB
}

// NewGormStatStore initializes a new GormStatStore
func NewGormStatStore(db *gorm.DB) StatStore {
	return &GormStatStore{db: db}
}

type countsRow struct {
	Commits      int64
	Issues       int64
	PullRequests int64
	OpenIssues   int64
}

func (s *GormStatStore) CountsAsOf(ctx context.Context, repoID uint, until time.Time) (domain.RepoStat, error) {
	until = until.UTC()

	var row countsRow
	err := s.db.WithContext(ctx).Raw(countsQuery,
		repoID, until,
		repoID, until,
		repoID, until,
		repoID, until, domain.StateOpen,
	).Scan(&row).Error
	if err != nil {
		return domain.RepoStat{}, errcodes.Translate(err)
	}

	return domain.RepoStat{
		RepoID:       repoID,
		Commits:      row.Commits,
		Issues:       row.Issues,
		PullRequests: row.PullRequests,
		OpenIssues:   row.OpenIssues,
	}, nil
}

// SaveStat upserts the snapshot for (repo, snapshot date); a re-run overwrites the counts.
func (s *GormStatStore) SaveStat(ctx context.Context, stat domain.RepoStat) (*domain.RepoStat, error) {
	dbStat := data.ToGormRepoStat(&stat)

	stored, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*data.RepoStat, error) {
		if err := requireRepository(tx, stat.RepoID); err != nil {
			return nil, err
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repo_id"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"commits", "issues", "pull_requests", "open_issues", "updated_at"}),
		}).Create(dbStat).Error
		if err != nil {
			return nil, err
		}

		var stored data.RepoStat
		err = tx.Where("repo_id = ? AND snapshot_date = ?", dbStat.RepoID, dbStat.SnapshotDate).First(&stored).Error
		return &stored, err
	})
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

func (s *GormStatStore) StatsByRepository(ctx context.Context, repoID uint) ([]domain.RepoStat, error) {
	var rows []data.RepoStat
	err := s.db.WithContext(ctx).Where("repo_id = ?", repoID).Order("snapshot_date ASC").Find(&rows).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	stats := make([]domain.RepoStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, *r.ToDomain())
	}
	return stats, nil
}

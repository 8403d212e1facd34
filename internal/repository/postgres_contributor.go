package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// GormContributorStore is a GORM-based implementation of ContributorStore
type GormContributorStore struct {
	db *gorm.DB
}

// NewGormContributorStore initializes a new GormContributorStore
func NewGormContributorStore(db *gorm.DB) ContributorStore {
	return &GormContributorStore{db: db}
}

// BumpContributor is a single INSERT .. ON CONFLICT DO UPDATE statement, so
// concurrent bumps of the same username never lose an update.
func (s *GormContributorStore) BumpContributor(ctx context.Context, repoID uint, username string, delta int64) (*domain.Contributor, error) {
	return s.upsert(ctx, repoID, username, delta, incrementBy(delta))
}

// SyncContributorTotal records an absolute total reported by the source
// without letting the counter move backwards.
func (s *GormContributorStore) SyncContributorTotal(ctx context.Context, repoID uint, username string, total int64) (*domain.Contributor, error) {
	return s.upsert(ctx, repoID, username, total,
		gorm.Expr("CASE WHEN contributors.contributions < ? THEN ? ELSE contributors.contributions END", total, total))
}

func (s *GormContributorStore) upsert(ctx context.Context, repoID uint, username string, initial int64, update clause.Expr) (*domain.Contributor, error) {
	stored, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*data.Contributor, error) {
		if err := requireRepository(tx, repoID); err != nil {
			return nil, err
		}
		if err := upsertContributor(tx, repoID, username, initial, update); err != nil {
			return nil, err
		}

		var stored data.Contributor
		err := tx.Where("repo_id = ? AND username = ?", repoID, username).First(&stored).Error
		return &stored, err
	})
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

func incrementBy(delta int64) clause.Expr {
	return gorm.Expr("contributors.contributions + ?", delta)
}

// upsertContributor creates the (repo, username) counter at initial, or applies
// update to the existing one, as one statement inside tx.
func upsertContributor(tx *gorm.DB, repoID uint, username string, initial int64, update clause.Expr) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "repo_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"contributions": update}),
	}).Create(&data.Contributor{RepoID: repoID, Username: username, Contributions: initial}).Error
}

// contributorUsernames lists the usernames with a counter in the repository.
func contributorUsernames(db *gorm.DB, repoID uint) ([]string, error) {
	var usernames []string
	err := db.Model(&data.Contributor{}).
		Where("repo_id = ?", repoID).
		Order("username").
		Pluck("username", &usernames).Error
	return usernames, err
}

func (s *GormContributorStore) TopContributors(ctx context.Context, repoID uint, limit int) ([]domain.Contributor, error) {
	var rows []data.Contributor
	err := s.db.WithContext(ctx).
		Where("repo_id = ?", repoID).
		Order("contributions DESC, username ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	contributors := make([]domain.Contributor, 0, len(rows))
	for _, r := range rows {
		contributors = append(contributors, *r.ToDomain())
	}
	return contributors, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// GormActivityStore is a GORM-based implementation of ActivityStore
type GormActivityStore struct {
	db *gorm.DB
}

// NewGormActivityStore initializes a new GormActivityStore
func NewGormActivityStore(db *gorm.DB) ActivityStore {
	return &GormActivityStore{db: db}
}

func (s *GormActivityStore) UpsertPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequest, error) {
	stored, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*data.PullRequest, error) {
		if err := requireRepository(tx, pr.RepoID); err != nil {
			return nil, err
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pr_number"}, {Name: "repo_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "title", "author", "updated_at", "closed_at", "merged_at", "url"}),
		}).Create(data.ToGormPullRequest(&pr)).Error
		if err != nil {
			return nil, err
		}

		var stored data.PullRequest
		err = tx.Where("repo_id = ? AND pr_number = ?", pr.RepoID, pr.Number).First(&stored).Error
		return &stored, err
	})
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

func (s *GormActivityStore) UpsertIssue(ctx context.Context, issue domain.Issue) (*domain.Issue, error) {
	stored, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*data.Issue, error) {
		if err := requireRepository(tx, issue.RepoID); err != nil {
			return nil, err
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "issue_number"}, {Name: "repo_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "title", "author", "updated_at", "closed_at", "url"}),
		}).Create(data.ToGormIssue(&issue)).Error
		if err != nil {
			return nil, err
		}

		var stored data.Issue
		err = tx.Where("repo_id = ? AND issue_number = ?", issue.RepoID, issue.Number).First(&stored).Error
		return &stored, err
	})
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// UpsertReview does not check the referenced pull request, reviews may arrive
// before the pull request itself is ingested.
func (s *GormActivityStore) UpsertReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	stored, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*data.Review, error) {
		if err := requireRepository(tx, review.RepoID); err != nil {
			return nil, err
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "repo_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"pr_number", "user_id", "state", "submitted_at", "body"}),
		}).Create(data.ToGormReview(&review)).Error
		if err != nil {
			return nil, err
		}

		var stored data.Review
		err = tx.Where("repo_id = ? AND review_id = ?", review.RepoID, review.ReviewID).First(&stored).Error
		return &stored, err
	})
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

func (s *GormActivityStore) PullRequestsByRepository(ctx context.Context, repoID uint) ([]domain.PullRequest, error) {
	var rows []data.PullRequest
	if err := s.db.WithContext(ctx).Where("repo_id = ?", repoID).Order("pr_number").Find(&rows).Error; err != nil {
		return nil, errcodes.Translate(err)
	}

	prs := make([]domain.PullRequest, 0, len(rows))
	for _, r := range rows {
		prs = append(prs, *r.ToDomain())
	}
	return prs, nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// GormRepositoryStore is a GORM-based implementation of RepositoryStore
type GormRepositoryStore struct {
	db *gorm.DB
}

// NewGormRepositoryStore initializes a new GormRepositoryStore
func NewGormRepositoryStore(db *gorm.DB) RepositoryStore {
	return &GormRepositoryStore{db: db}
}

// UpsertRepository creates the repository or refreshes its metadata, keyed by name and owner.
func (r *GormRepositoryStore) UpsertRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error) {
	dbRepo := data.ToGormRepo(&repo)
	dbRepo.ID = 0
	if dbRepo.PublicID == "" {
		dbRepo.PublicID = uuid.NewString()
	}

	stored, err := data.WithTransactionResult(ctx, r.db, func(tx *gorm.DB) (*data.Repository, error) {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repo_name"}, {Name: "owner"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "url", "updated_at"}),
		}).Create(dbRepo).Error
		if err != nil {
			return nil, err
		}

		var stored data.Repository
		err = tx.Where("repo_name = ? AND owner = ?", repo.Name, repo.Owner).First(&stored).Error
		return &stored, err
	})
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

func (r *GormRepositoryStore) RepoByName(ctx context.Context, owner, name string) (*domain.Repository, error) {
	return r.first(ctx, "owner = ? AND repo_name = ?", owner, name)
}

func (r *GormRepositoryStore) RepoByPublicID(ctx context.Context, publicID string) (*domain.Repository, error) {
	return r.first(ctx, "public_id = ?", publicID)
}

func (r *GormRepositoryStore) first(ctx context.Context, query string, args ...any) (*domain.Repository, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var repo data.Repository
	err := r.db.WithContext(ctx).Where(query, args...).Limit(1).Find(&repo).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}
	if repo.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return repo.ToDomain(), nil
}

func (r *GormRepositoryStore) AllRepos(ctx context.Context) ([]domain.Repository, error) {
	var dbRepositories []data.Repository

	err := r.db.WithContext(ctx).Order("owner, repo_name").Find(&dbRepositories).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	repos := make([]domain.Repository, 0, len(dbRepositories))
	for _, dbRepository := range dbRepositories {
		repos = append(repos, *dbRepository.ToDomain())
	}
	return repos, nil
}

func (r *GormRepositoryStore) CountRepos(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&data.Repository{}).Count(&count).Error
	return count, errcodes.Translate(err)
}

func (r *GormRepositoryStore) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&data.Repository{}).Where("id = ?", id).Update("last_synced_at", at.UTC())
	if res.Error != nil {
		return errcodes.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

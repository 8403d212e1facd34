package repository

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// GormCommitStore is a GORM-based implementation of CommitStore
type GormCommitStore struct {
	db *gorm.DB
}

// NewGormCommitStore initializes a new GormCommitStore
func NewGormCommitStore(db *gorm.DB) CommitStore {
	return &GormCommitStore{db: db}
}

// GetCommit returns one stored commit with its files.
func (s *GormCommitStore) GetCommit(ctx context.Context, repoID uint, sha string) (*domain.Commit, error) {
	var commit data.Commit
	err := s.db.WithContext(ctx).Preload("Files").
		Where("repo_id = ? AND sha = ?", repoID, sha).Limit(1).Find(&commit).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}
	if commit.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return commit.ToDomain(), nil
}

type savedCommit struct {
	commit  *data.Commit
	created bool
}

// SaveCommit stores a repository commit and its files in one transaction and,
// when the commit is new, adds one to its author's contributor counter in the
// same transaction. Re-submitting a known (repo, sha) pair changes nothing.
func (s *GormCommitStore) SaveCommit(ctx context.Context, commit domain.Commit) (*domain.Commit, bool, error) {
	res, err := data.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (savedCommit, error) {
		if err := requireRepository(tx, commit.RepoID); err != nil {
			return savedCommit{}, err
		}

		dbCommit := data.ToGormCommit(&commit)
		dbCommit.ID = 0

		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sha"}, {Name: "repo_id"}},
			DoNothing: true,
		}).Create(dbCommit)
		if insert.Error != nil {
			return savedCommit{}, insert.Error
		}

		if insert.RowsAffected == 0 {
			var existing data.Commit
			err := tx.Preload("Files").Where("repo_id = ? AND sha = ?", commit.RepoID, commit.SHA).First(&existing).Error
			return savedCommit{commit: &existing}, err
		}

		if len(commit.Files) > 0 {
			files := make([]data.CommitFile, 0, len(commit.Files))
			for _, f := range commit.Files {
				files = append(files, data.ToGormCommitFile(dbCommit.ID, f))
			}
			if err := tx.Create(&files).Error; err != nil {
				return savedCommit{}, err
			}
			dbCommit.Files = files
		}

		if username := commit.Username(); username != "" {
			if err := upsertContributor(tx, commit.RepoID, username, 1, incrementBy(1)); err != nil {
				return savedCommit{}, err
			}
		}

		return savedCommit{commit: dbCommit, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}

	if res.created {
		log.Debug().Str("sha", commit.SHA).Uint("repo_id", commit.RepoID).Int("files", len(commit.Files)).Msg("commit stored")
	}
	return res.commit.ToDomain(), res.created, nil
}

// GetCommitsByRepository fetches a page of stored commits for a repository
func (s *GormCommitStore) GetCommitsByRepository(ctx context.Context, repo domain.Repository, query dtos.APIPagingDto) (*dtos.MultiCommitsResponse, error) {
	var dbCommits []data.Commit
	var count int64

	queryInfo, offset := getPaginationInfo(query)

	db := s.db.WithContext(ctx).Model(&data.Commit{}).Where("repo_id = ?", repo.ID)

	if err := db.Count(&count).Error; err != nil {
		return nil, errcodes.Translate(err)
	}

	err := db.Offset(offset).Limit(queryInfo.Limit).
		Order(orderClause(queryInfo)).
		Find(&dbCommits).Error
	if err != nil {
		log.Info().Msgf("fetch commits error %v", err.Error())
		return nil, errcodes.Translate(err)
	}

	pagingInfo := getPagingInfo(queryInfo, int(count))
	pagingInfo.Count = len(dbCommits)

	commits := make([]domain.Commit, 0, len(dbCommits))
	for _, c := range dbCommits {
		commits = append(commits, *c.ToDomain())
	}

	return &dtos.MultiCommitsResponse{
		Commits:  commits,
		PageInfo: pagingInfo,
	}, nil
}

type criticalFileRow struct {
	Filename    string
	CommitCount int64
	AuthorCount int64
	ChangeCount int64
}

// CriticalFiles ranks files by how many distinct commits touched them.
func (s *GormCommitStore) CriticalFiles(ctx context.Context, repoID uint, limit int) ([]domain.CriticalFile, error) {
	var rows []criticalFileRow
	err := s.db.WithContext(ctx).
		Table("commit_files").
		Select("commit_files.filename AS filename, " +
			"COUNT(DISTINCT commits.id) AS commit_count, " +
			"COUNT(DISTINCT " + commitAuthorExpr + ") AS author_count, " +
			"COALESCE(SUM(commit_files.changes), 0) AS change_count").
		Joins("JOIN commits ON commits.id = commit_files.commit_id").
		Where("commits.repo_id = ?", repoID).
		Group("commit_files.filename").
		Order("commit_count DESC, change_count DESC, filename ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	files := make([]domain.CriticalFile, 0, len(rows))
	for _, r := range rows {
		files = append(files, domain.CriticalFile{
			Filename: r.Filename,
			Commits:  r.CommitCount,
			Authors:  r.AuthorCount,
			Changes:  r.ChangeCount,
		})
	}
	return files, nil
}

type authorCommitsRow struct {
	Username    string
	CommitCount int64
}

// CommitsPerAuthor returns commit counts per attributed username, largest first.
func (s *GormCommitStore) CommitsPerAuthor(ctx context.Context, repoID uint) ([]domain.AuthorCommits, error) {
	var rows []authorCommitsRow
	err := s.db.WithContext(ctx).
		Table("commits").
		Select(commitAuthorExpr+" AS username, COUNT(*) AS commit_count").
		Where("commits.repo_id = ?", repoID).
		Group(commitAuthorExpr).
		Order("commit_count DESC, username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errcodes.Translate(err)
	}

	authors := make([]domain.AuthorCommits, 0, len(rows))
	for _, r := range rows {
		authors = append(authors, domain.AuthorCommits{Username: r.Username, Commits: r.CommitCount})
	}
	return authors, nil
}

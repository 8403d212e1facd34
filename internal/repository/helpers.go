package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/just-nibble/repo-analytics/internal/data"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// commitAuthorExpr is the username a commit is attributed to.
const commitAuthorExpr = "COALESCE(NULLIF(commits.author_login, ''), commits.author_name)"

// requireRepository rejects writes against a repository that does not exist.
func requireRepository(tx *gorm.DB, repoID uint) error {
	var count int64
	if err := tx.Model(&data.Repository{}).Where("id = ?", repoID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: repository %d", errcodes.ErrForeignKey, repoID)
	}
	return nil
}

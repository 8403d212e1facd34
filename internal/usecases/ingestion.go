package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

type IngestionUsecase interface {
	UpsertRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error)
	// RecordCommit stores a commit with its files and counts it for its author.
	// created is false when the commit was already known and nothing changed.
	RecordCommit(ctx context.Context, commit domain.Commit) (stored *domain.Commit, created bool, err error)
	UpsertPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequest, error)
	UpsertIssue(ctx context.Context, issue domain.Issue) (*domain.Issue, error)
	RecordReview(ctx context.Context, review domain.Review) (*domain.Review, error)
	BumpContributor(ctx context.Context, repoID uint, username string, delta int64) (*domain.Contributor, error)
	SyncContributorTotal(ctx context.Context, repoID uint, username string, total int64) (*domain.Contributor, error)
}

type ingestionUsecase struct {
	repositoryStore  repository.RepositoryStore
	commitStore      repository.CommitStore
	activityStore    repository.ActivityStore
	contributorStore repository.ContributorStore
	policy           storePolicy
}

func NewIngestionUsecase(repositoryStore repository.RepositoryStore, commitStore repository.CommitStore,
	activityStore repository.ActivityStore, contributorStore repository.ContributorStore, cfg config.Config) IngestionUsecase {
	return &ingestionUsecase{
		repositoryStore:  repositoryStore,
		commitStore:      commitStore,
		activityStore:    activityStore,
		contributorStore: contributorStore,
		policy:           newStorePolicy(cfg.DB),
	}
}

func (uc *ingestionUsecase) UpsertRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error) {
	repo.Owner = strings.TrimSpace(repo.Owner)
	repo.Name = strings.TrimSpace(repo.Name)
	if repo.Owner == "" {
		return nil, errcodes.Validation("owner", "is required")
	}
	if repo.Name == "" {
		return nil, errcodes.Validation("name", "is required")
	}

	return retry(ctx, uc.policy, "upsert_repository", func(ctx context.Context) (*domain.Repository, error) {
		return uc.repositoryStore.UpsertRepository(ctx, repo)
	})
}

type recordedCommit struct {
	commit  *domain.Commit
	created bool
}

func (uc *ingestionUsecase) RecordCommit(ctx context.Context, commit domain.Commit) (*domain.Commit, bool, error) {
	if err := validateCommit(commit); err != nil {
		return nil, false, err
	}

	res, err := retry(ctx, uc.policy, "record_commit", func(ctx context.Context) (recordedCommit, error) {
		stored, created, err := uc.commitStore.SaveCommit(ctx, commit)
		return recordedCommit{commit: stored, created: created}, err
	})
	if err != nil {
		return nil, false, err
	}
	return res.commit, res.created, nil
}

func validateCommit(commit domain.Commit) error {
	if commit.RepoID == 0 {
		return errcodes.Validation("repo_id", "is required")
	}
	if strings.TrimSpace(commit.SHA) == "" {
		return errcodes.Validation("sha", "is required")
	}
	if commit.Date.IsZero() {
		return errcodes.Validation("date", "is required")
	}
	for _, f := range commit.Files {
		if f.Filename == "" {
			return errcodes.Validation("files.filename", "is required")
		}
		if !f.Status.Valid() {
			return errcodes.Validation("files.status", "unknown status "+string(f.Status))
		}
	}
	return nil
}

func (uc *ingestionUsecase) UpsertPullRequest(ctx context.Context, pr domain.PullRequest) (*domain.PullRequest, error) {
	if err := validateActivity(pr.RepoID, pr.Number, pr.CreatedAt); err != nil {
		return nil, err
	}
	if pr.UpdatedAt.IsZero() {
		pr.UpdatedAt = pr.CreatedAt
	}

	return retry(ctx, uc.policy, "upsert_pull_request", func(ctx context.Context) (*domain.PullRequest, error) {
		return uc.activityStore.UpsertPullRequest(ctx, pr)
	})
}

func (uc *ingestionUsecase) UpsertIssue(ctx context.Context, issue domain.Issue) (*domain.Issue, error) {
	if err := validateActivity(issue.RepoID, issue.Number, issue.CreatedAt); err != nil {
		return nil, err
	}
	if issue.UpdatedAt.IsZero() {
		issue.UpdatedAt = issue.CreatedAt
	}

	return retry(ctx, uc.policy, "upsert_issue", func(ctx context.Context) (*domain.Issue, error) {
		return uc.activityStore.UpsertIssue(ctx, issue)
	})
}

func validateActivity(repoID uint, number int, createdAt time.Time) error {
	if repoID == 0 {
		return errcodes.Validation("repo_id", "is required")
	}
	if number <= 0 {
		return errcodes.Validation("number", "must be positive")
	}
	if createdAt.IsZero() {
		return errcodes.Validation("created_at", "is required")
	}
	return nil
}

func (uc *ingestionUsecase) RecordReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	switch {
	case review.RepoID == 0:
		return nil, errcodes.Validation("repo_id", "is required")
	case review.ReviewID == 0:
		return nil, errcodes.Validation("review_id", "is required")
	case review.PRNumber <= 0:
		return nil, errcodes.Validation("pr_number", "must be positive")
	}

	return retry(ctx, uc.policy, "record_review", func(ctx context.Context) (*domain.Review, error) {
		return uc.activityStore.UpsertReview(ctx, review)
	})
}

// BumpContributor is not retried: a bump that committed before the
// connection dropped would be applied twice.
func (uc *ingestionUsecase) BumpContributor(ctx context.Context, repoID uint, username string, delta int64) (*domain.Contributor, error) {
	if err := validateContributor(repoID, username); err != nil {
		return nil, err
	}
	if delta < 0 {
		return nil, errcodes.Validation("delta", "must not be negative")
	}

	c, err := call(ctx, uc.policy, func(ctx context.Context) (*domain.Contributor, error) {
		return uc.contributorStore.BumpContributor(ctx, repoID, username, delta)
	})
	if err != nil {
		log.Error().Err(err).Uint("repo_id", repoID).Str("username", username).Msg("bump contributor failed")
		return nil, err
	}
	return c, nil
}

func (uc *ingestionUsecase) SyncContributorTotal(ctx context.Context, repoID uint, username string, total int64) (*domain.Contributor, error) {
	if err := validateContributor(repoID, username); err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, errcodes.Validation("contributions", "must not be negative")
	}

	return retry(ctx, uc.policy, "sync_contributor", func(ctx context.Context) (*domain.Contributor, error) {
		return uc.contributorStore.SyncContributorTotal(ctx, repoID, username, total)
	})
}

func validateContributor(repoID uint, username string) error {
	if repoID == 0 {
		return errcodes.Validation("repo_id", "is required")
	}
	if strings.TrimSpace(username) == "" {
		return errcodes.Validation("username", "is required")
	}
	return nil
}

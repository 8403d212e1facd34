package data

import (
	"time"

	"github.com/just-nibble/repo-analytics/internal/domain"
)

// Repository represents a GitHub repository
type Repository struct {
	ID           uint   `gorm:"primaryKey"`
	PublicID     string `gorm:"size:36;not null;uniqueIndex"`
	RepoName     string `gorm:"column:repo_name;size:255;not null;uniqueIndex:idx_repositories_name_owner"`
	Owner        string `gorm:"size:255;not null;uniqueIndex:idx_repositories_name_owner"`
	Description  string
	URL          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt *time.Time

	Commits      []Commit             `gorm:"foreignKey:RepoID"`
	PullRequests []PullRequest        `gorm:"foreignKey:RepoID"`
	Issues       []Issue              `gorm:"foreignKey:RepoID"`
	Reviews      []Review             `gorm:"foreignKey:RepoID"`
	Contributors []Contributor        `gorm:"foreignKey:RepoID"`
	Periods      []ContributionPeriod `gorm:"foreignKey:RepoID"`
	Stats        []RepoStat           `gorm:"foreignKey:RepoID"`
}

// Commit represents a commit in a repository
type Commit struct {
	ID          uint   `gorm:"primaryKey"`
	RepoID      uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_commits_sha_repo"`
	SHA         string `gorm:"column:sha;size:64;not null;uniqueIndex:idx_commits_sha_repo"`
	AuthorName  string `gorm:"index"`
	AuthorEmail string
	AuthorLogin string    `gorm:"index"`
	Date        time.Time `gorm:"index"`
	Message     string
	URL         string
	CreatedAt   time.Time

	Files []CommitFile `gorm:"foreignKey:CommitID"`
}

// CommitFile represents a file touched by a commit
type CommitFile struct {
	ID        uint   `gorm:"primaryKey"`
	CommitID  uint   `gorm:"not null;index"`
	Filename  string `gorm:"not null"`
	Status    string `gorm:"size:16;not null"`
	Additions int
	Deletions int
	Changes   int
}

type PullRequest struct {
	ID        uint   `gorm:"primaryKey"`
	RepoID    uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_pull_requests_number_repo"`
	PRNumber  int    `gorm:"column:pr_number;not null;uniqueIndex:idx_pull_requests_number_repo"`
	Author    string `gorm:"index"`
	State     string `gorm:"size:16;not null"`
	Title     string
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
	ClosedAt  *time.Time
	MergedAt  *time.Time
	URL       string
}

type Issue struct {
	ID          uint   `gorm:"primaryKey"`
	RepoID      uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_issues_number_repo"`
	IssueNumber int    `gorm:"not null;uniqueIndex:idx_issues_number_repo"`
	Author      string `gorm:"index"`
	State       string `gorm:"size:16;not null;index"`
	Title       string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
	ClosedAt    *time.Time
	URL         string
}

// Review links to its pull request through PRNumber only, there is no
// foreign key between reviews and pull_requests.
type Review struct {
	ID          uint   `gorm:"primaryKey"`
	RepoID      uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_reviews_review_repo"`
	PRNumber    int    `gorm:"column:pr_number;not null;index"`
	ReviewID    int64  `gorm:"not null;uniqueIndex:idx_reviews_review_repo"`
	UserID      string `gorm:"index"`
	State       string `gorm:"size:32"`
	SubmittedAt time.Time
	Body        string
}

type Contributor struct {
	ID            uint   `gorm:"primaryKey"`
	RepoID        uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_contributors_username_repo"`
	Username      string `gorm:"size:255;not null;uniqueIndex:idx_contributors_username_repo"`
	Contributions int64  `gorm:"not null;default:0"`
}

type ContributionPeriod struct {
	ID        uint      `gorm:"primaryKey"`
	RepoID    uint      `gorm:"column:repo_id;not null;uniqueIndex:idx_contribution_periods_window"`
	StartDate time.Time `gorm:"not null;uniqueIndex:idx_contribution_periods_window"`
	EndDate   time.Time `gorm:"not null;uniqueIndex:idx_contribution_periods_window;check:chk_contribution_periods_range,start_date <= end_date"`
	CreatedAt time.Time

	Contributions []DeveloperContribution `gorm:"foreignKey:ContributionPeriodID"`
}

type DeveloperContribution struct {
	ID                   uint   `gorm:"primaryKey"`
	ContributionPeriodID uint   `gorm:"not null;uniqueIndex:idx_developer_contributions_period_user"`
	ContributorUsername  string `gorm:"size:255;not null;uniqueIndex:idx_developer_contributions_period_user"`
	CommitsCount         int    `gorm:"not null;default:0"`
	PullRequestsCount    int    `gorm:"not null;default:0"`
	IssuesCount          int    `gorm:"not null;default:0"`
	ReviewsCount         int    `gorm:"not null;default:0"`
	ContributionsTotal   int    `gorm:"not null;default:0;check:chk_developer_contributions_total,contributions_total = commits_count + pull_requests_count + issues_count + reviews_count"`
}

type RepoStat struct {
	ID           uint      `gorm:"primaryKey"`
	RepoID       uint      `gorm:"column:repo_id;not null;uniqueIndex:idx_repo_stats_repo_date"`
	SnapshotDate time.Time `gorm:"not null;uniqueIndex:idx_repo_stats_repo_date"`
	Commits      int64
	Issues       int64
	PullRequests int64
	OpenIssues   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&Repository{}, &Commit{}, &CommitFile{}, &PullRequest{}, &Issue{}, &Review{},
		&Contributor{}, &ContributionPeriod{}, &DeveloperContribution{}, &RepoStat{},
	}
}

func (r Repository) ToDomain() *domain.Repository {
	return &domain.Repository{
		ID:           r.ID,
		PublicID:     r.PublicID,
		Name:         r.RepoName,
		Owner:        r.Owner,
		Description:  r.Description,
		URL:          r.URL,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastSyncedAt: r.LastSyncedAt,
	}
}

func ToGormRepo(r *domain.Repository) *Repository {
	return &Repository{
		ID:           r.ID,
		PublicID:     r.PublicID,
		RepoName:     r.Name,
		Owner:        r.Owner,
		Description:  r.Description,
		URL:          r.URL,
		LastSyncedAt: r.LastSyncedAt,
	}
}

func (c Commit) ToDomain() *domain.Commit {
	commit := &domain.Commit{
		ID:          c.ID,
		RepoID:      c.RepoID,
		SHA:         c.SHA,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		AuthorLogin: c.AuthorLogin,
		Date:        c.Date.UTC(),
		Message:     c.Message,
		URL:         c.URL,
	}
	for _, f := range c.Files {
		commit.Files = append(commit.Files, f.ToDomain())
	}
	return commit
}

func ToGormCommit(c *domain.Commit) *Commit {
	return &Commit{
		ID:          c.ID,
		RepoID:      c.RepoID,
		SHA:         c.SHA,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		AuthorLogin: c.AuthorLogin,
		Date:        c.Date.UTC(),
		Message:     c.Message,
		URL:         c.URL,
	}
}

func (f CommitFile) ToDomain() domain.CommitFile {
	return domain.CommitFile{
		Filename:  f.Filename,
		Status:    domain.FileStatus(f.Status),
		Additions: f.Additions,
		Deletions: f.Deletions,
		Changes:   f.Changes,
	}
}

func ToGormCommitFile(commitID uint, f domain.CommitFile) CommitFile {
	return CommitFile{
		CommitID:  commitID,
		Filename:  f.Filename,
		Status:    string(f.Status),
		Additions: f.Additions,
		Deletions: f.Deletions,
		Changes:   f.Changes,
	}
}

func (p PullRequest) ToDomain() *domain.PullRequest {
	return &domain.PullRequest{
		ID:        p.ID,
		RepoID:    p.RepoID,
		Number:    p.PRNumber,
		Author:    p.Author,
		State:     p.State,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
		ClosedAt:  utcPtr(p.ClosedAt),
		MergedAt:  utcPtr(p.MergedAt),
		URL:       p.URL,
	}
}

func ToGormPullRequest(p *domain.PullRequest) *PullRequest {
	return &PullRequest{
		RepoID:    p.RepoID,
		PRNumber:  p.Number,
		Author:    p.Author,
		State:     p.State,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
		ClosedAt:  utcPtr(p.ClosedAt),
		MergedAt:  utcPtr(p.MergedAt),
		URL:       p.URL,
	}
}

func (i Issue) ToDomain() *domain.Issue {
	return &domain.Issue{
		ID:        i.ID,
		RepoID:    i.RepoID,
		Number:    i.IssueNumber,
		Author:    i.Author,
		State:     i.State,
		Title:     i.Title,
		CreatedAt: i.CreatedAt.UTC(),
		UpdatedAt: i.UpdatedAt.UTC(),
		ClosedAt:  utcPtr(i.ClosedAt),
		URL:       i.URL,
	}
}

func ToGormIssue(i *domain.Issue) *Issue {
	return &Issue{
		RepoID:      i.RepoID,
		IssueNumber: i.Number,
		Author:      i.Author,
		State:       i.State,
		Title:       i.Title,
		CreatedAt:   i.CreatedAt.UTC(),
		UpdatedAt:   i.UpdatedAt.UTC(),
		ClosedAt:    utcPtr(i.ClosedAt),
		URL:         i.URL,
	}
}

func (r Review) ToDomain() *domain.Review {
	return &domain.Review{
		ID:          r.ID,
		RepoID:      r.RepoID,
		PRNumber:    r.PRNumber,
		ReviewID:    r.ReviewID,
		UserID:      r.UserID,
		State:       r.State,
		SubmittedAt: r.SubmittedAt.UTC(),
		Body:        r.Body,
	}
}

func ToGormReview(r *domain.Review) *Review {
	return &Review{
		RepoID:      r.RepoID,
		PRNumber:    r.PRNumber,
		ReviewID:    r.ReviewID,
		UserID:      r.UserID,
		State:       r.State,
		SubmittedAt: r.SubmittedAt.UTC(),
		Body:        r.Body,
	}
}

func (c Contributor) ToDomain() *domain.Contributor {
	return &domain.Contributor{
		ID:            c.ID,
		RepoID:        c.RepoID,
		Username:      c.Username,
		Contributions: c.Contributions,
	}
}

func (p ContributionPeriod) ToDomain() *domain.ContributionPeriod {
	return &domain.ContributionPeriod{
		ID:        p.ID,
		RepoID:    p.RepoID,
		StartDate: p.StartDate.UTC(),
		EndDate:   p.EndDate.UTC(),
	}
}

func (d DeveloperContribution) ToDomain() domain.DeveloperContribution {
	return domain.DeveloperContribution{
		PeriodID:           d.ContributionPeriodID,
		Username:           d.ContributorUsername,
		CommitsCount:       d.CommitsCount,
		PullRequestsCount:  d.PullRequestsCount,
		IssuesCount:        d.IssuesCount,
		ReviewsCount:       d.ReviewsCount,
		ContributionsTotal: d.ContributionsTotal,
	}
}

// ToGormDeveloperContribution always derives the total from the counters.
func ToGormDeveloperContribution(periodID uint, d domain.DeveloperContribution) DeveloperContribution {
	d.Recompute()
	return DeveloperContribution{
		ContributionPeriodID: periodID,
		ContributorUsername:  d.Username,
		CommitsCount:         d.CommitsCount,
		PullRequestsCount:    d.PullRequestsCount,
		IssuesCount:          d.IssuesCount,
		ReviewsCount:         d.ReviewsCount,
		ContributionsTotal:   d.ContributionsTotal,
	}
}

func (s RepoStat) ToDomain() *domain.RepoStat {
	return &domain.RepoStat{
		RepoID:       s.RepoID,
		SnapshotDate: s.SnapshotDate.UTC(),
		Commits:      s.Commits,
		Issues:       s.Issues,
		PullRequests: s.PullRequests,
		OpenIssues:   s.OpenIssues,
	}
}

func ToGormRepoStat(s *domain.RepoStat) *RepoStat {
	return &RepoStat{
		RepoID:       s.RepoID,
		SnapshotDate: domain.Day(s.SnapshotDate),
		Commits:      s.Commits,
		Issues:       s.Issues,
		PullRequests: s.PullRequests,
		OpenIssues:   s.OpenIssues,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

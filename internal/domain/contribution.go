package domain

import (
	"sort"
	"time"
)

type Contributor struct {
	ID            uint   `json:"-"`
	RepoID        uint   `json:"-"`
	Username      string `json:"username"`
	Contributions int64  `json:"contributions"`
}

// ContributionPeriod is an inclusive calendar window [StartDate, EndDate].
type ContributionPeriod struct {
	ID        uint      `json:"id"`
	RepoID    uint      `json:"-"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Bounds returns the half-open timestamp range covered by the period.
func (p ContributionPeriod) Bounds() (time.Time, time.Time) {
	return Day(p.StartDate), Day(p.EndDate).AddDate(0, 0, 1)
}

type DeveloperContribution struct {
	PeriodID           uint   `json:"period_id"`
	Username           string `json:"contributor_username"`
	CommitsCount       int    `json:"commits_count"`
	PullRequestsCount  int    `json:"pull_requests_count"`
	IssuesCount        int    `json:"issues_count"`
	ReviewsCount       int    `json:"reviews_count"`
	ContributionsTotal int    `json:"contributions_total"`
}

// Recompute derives ContributionsTotal from the four counters.
func (d *DeveloperContribution) Recompute() {
	d.ContributionsTotal = d.CommitsCount + d.PullRequestsCount + d.IssuesCount + d.ReviewsCount
}

type ActivityKind string

const (
	ActivityCommit      ActivityKind = "commit"
	ActivityPullRequest ActivityKind = "pull_request"
	ActivityIssue       ActivityKind = "issue"
	ActivityReview      ActivityKind = "review"
)

// ActivityCount is the number of raw facts of one kind attributed to a username.
type ActivityCount struct {
	Username string
	Kind     ActivityKind
	Count    int
}

// BuildContributions folds activity counts into one row per username, sorted by
// username. Usernames in known with no activity get a zero row when includeInactive is set.
func BuildContributions(periodID uint, counts []ActivityCount, known []string, includeInactive bool) []DeveloperContribution {
	byUser := make(map[string]*DeveloperContribution)
	get := func(username string) *DeveloperContribution {
		dc, ok := byUser[username]
		if !ok {
			dc = &DeveloperContribution{PeriodID: periodID, Username: username}
			byUser[username] = dc
		}
		return dc
	}

	for _, c := range counts {
		if c.Username == "" || c.Count <= 0 {
			continue
		}
		dc := get(c.Username)
		switch c.Kind {
		case ActivityCommit:
			dc.CommitsCount += c.Count
		case ActivityPullRequest:
			dc.PullRequestsCount += c.Count
		case ActivityIssue:
			dc.IssuesCount += c.Count
		case ActivityReview:
			dc.ReviewsCount += c.Count
		}
	}

	if includeInactive {
		for _, username := range known {
			if username != "" {
				get(username)
			}
		}
	}

	rows := make([]DeveloperContribution, 0, len(byUser))
	for _, dc := range byUser {
		dc.Recompute()
		rows = append(rows, *dc)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Username < rows[j].Username })
	return rows
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

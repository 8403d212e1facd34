package domain

import "time"

// RepoStat is a point-in-time snapshot, one per (RepoID, SnapshotDate).
type RepoStat struct {
	RepoID       uint      `json:"-"`
	SnapshotDate time.Time `json:"snapshot_date"`
	Commits      int64     `json:"commits"`
	Issues       int64     `json:"issues"`
	PullRequests int64     `json:"pull_requests"`
	OpenIssues   int64     `json:"open_issues"`
}

type PeriodSummary struct {
	PeriodID       uint    `json:"period_id"`
	Developers     int     `json:"developers"`
	Total          int     `json:"total"`
	Mean           float64 `json:"mean"`
	Median         float64 `json:"median"`
	StdDev         float64 `json:"std_dev"`
	P90            float64 `json:"p90"`
	TopContributor string  `json:"top_contributor"`
}

type CriticalFile struct {
	Filename string `json:"filename"`
	Commits  int64  `json:"commits"`
	Authors  int64  `json:"authors"`
	Changes  int64  `json:"changes"`
}

type AuthorCommits struct {
	Username string `json:"username"`
	Commits  int64  `json:"commits"`
}

type BusFactor struct {
	Factor       int             `json:"bus_factor"`
	TotalCommits int64           `json:"total_commits"`
	KeyAuthors   []AuthorCommits `json:"key_authors"`
}

// ComputeBusFactor returns the smallest set of authors that together cover at
// least half of all commits. authors must be sorted by commits descending.
func ComputeBusFactor(authors []AuthorCommits) BusFactor {
	var total int64
	for _, a := range authors {
		total += a.Commits
	}

	bf := BusFactor{TotalCommits: total}
	if total == 0 {
		return bf
	}

	var covered int64
	for _, a := range authors {
		bf.KeyAuthors = append(bf.KeyAuthors, a)
		covered += a.Commits
		if covered*2 >= total {
			break
		}
	}
	bf.Factor = len(bf.KeyAuthors)
	return bf
}

package domain

import "time"

const StateOpen = "open"

type PullRequest struct {
	ID        uint       `json:"-"`
	RepoID    uint       `json:"-"`
	Number    int        `json:"pr_number"`
	Author    string     `json:"author"`
	State     string     `json:"state"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	URL       string     `json:"url"`
}

type Issue struct {
	ID        uint       `json:"-"`
	RepoID    uint       `json:"-"`
	Number    int        `json:"issue_number"`
	Author    string     `json:"author"`
	State     string     `json:"state"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	URL       string     `json:"url"`
}

// Review refers to its pull request by PRNumber only; the store does not
// enforce that the pull request exists.
type Review struct {
	ID          uint      `json:"-"`
	RepoID      uint      `json:"-"`
	PRNumber    int       `json:"pr_number"`
	ReviewID    int64     `json:"review_id"`
	UserID      string    `json:"user_id"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submitted_at"`
	Body        string    `json:"body"`
}

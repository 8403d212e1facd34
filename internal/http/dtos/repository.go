package dtos

import "time"

// RepositoryInput starts tracking a repository. Since is YYYY-MM-DD and optional.
type RepositoryInput struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Since string `json:"since"`
}

// PeriodInput holds an inclusive YYYY-MM-DD window.
type PeriodInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SnapshotInput holds a YYYY-MM-DD date, today when empty.
type SnapshotInput struct {
	Date string `json:"date"`
}

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string, returning fallback when s is empty.
func ParseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse(DateLayout, s)
}

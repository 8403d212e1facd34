package domain

import (
	"fmt"
	"time"
)

// Repository is a tracked source repository, unique by (Name, Owner).
type Repository struct {
	ID           uint       `json:"-"`
	PublicID     string     `json:"id"`
	Name         string     `json:"name"`
	Owner        string     `json:"owner"`
	Description  string     `json:"description"`
	URL          string     `json:"url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

package dtos

import "github.com/just-nibble/repo-analytics/internal/domain"

type MultiCommitsResponse struct {
	Commits  []domain.Commit `json:"commits"`
	PageInfo PagingInfo      `json:"page_info"`
}

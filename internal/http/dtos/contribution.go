package dtos

import "github.com/just-nibble/repo-analytics/internal/domain"

type PeriodResponse struct {
	Period        domain.ContributionPeriod      `json:"period"`
	Contributions []domain.DeveloperContribution `json:"contributions"`
}

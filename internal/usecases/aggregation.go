package usecases

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"

	"github.com/just-nibble/repo-analytics/internal/domain"
	"github.com/just-nibble/repo-analytics/internal/repository"
	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

type AggregationUsecase interface {
	// AggregatePeriod derives the developer rows of the inclusive window
	// [start, end] from raw facts. Re-running it overwrites the stored rows.
	AggregatePeriod(ctx context.Context, repoID uint, start, end time.Time) (*domain.ContributionPeriod, []domain.DeveloperContribution, error)
	PeriodSummary(ctx context.Context, periodID uint) (*domain.PeriodSummary, error)
}

type aggregationUsecase struct {
	contributionStore repository.ContributionStore
	includeInactive   bool
	policy            storePolicy
}

func NewAggregationUsecase(contributionStore repository.ContributionStore, cfg config.Config) AggregationUsecase {
	return &aggregationUsecase{
		contributionStore: contributionStore,
		includeInactive:   cfg.Aggregation.IncludeInactive,
		policy:            newStorePolicy(cfg.DB),
	}
}

type aggregated struct {
	period *domain.ContributionPeriod
	rows   []domain.DeveloperContribution
}

func (uc *aggregationUsecase) AggregatePeriod(ctx context.Context, repoID uint, start, end time.Time) (*domain.ContributionPeriod, []domain.DeveloperContribution, error) {
	if repoID == 0 {
		return nil, nil, errcodes.Validation("repo_id", "is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, nil, errcodes.Validation("period", "start_date and end_date are required")
	}
	start, end = domain.Day(start), domain.Day(end)
	if start.After(end) {
		return nil, nil, errcodes.Validation("start_date", "must not be after end_date")
	}

	fold := func(p *domain.ContributionPeriod, counts []domain.ActivityCount, known []string) []domain.DeveloperContribution {
		return domain.BuildContributions(p.ID, counts, known, uc.includeInactive)
	}

	res, err := call(ctx, uc.policy, func(ctx context.Context) (aggregated, error) {
		period, rows, err := uc.contributionStore.RefreshPeriod(ctx,
			domain.ContributionPeriod{RepoID: repoID, StartDate: start, EndDate: end}, fold)
		return aggregated{period: period, rows: rows}, err
	})
	if err != nil {
		log.Error().Err(err).Uint("repo_id", repoID).Time("start", start).Time("end", end).Msg("aggregate period failed")
		return nil, nil, err
	}

	log.Info().Uint("repo_id", repoID).Uint("period_id", res.period.ID).Int("developers", len(res.rows)).Msg("period aggregated")
	return res.period, res.rows, nil
}

func (uc *aggregationUsecase) PeriodSummary(ctx context.Context, periodID uint) (*domain.PeriodSummary, error) {
	rows, err := call(ctx, uc.policy, func(ctx context.Context) ([]domain.DeveloperContribution, error) {
		if _, err := uc.contributionStore.PeriodByID(ctx, periodID); err != nil {
			return nil, err
		}
		return uc.contributionStore.PeriodContributions(ctx, periodID)
	})
	if err != nil {
		return nil, err
	}
	return summarize(periodID, rows)
}

func summarize(periodID uint, rows []domain.DeveloperContribution) (*domain.PeriodSummary, error) {
	summary := &domain.PeriodSummary{PeriodID: periodID, Developers: len(rows)}
	if len(rows) == 0 {
		return summary, nil
	}

	totals := make(stats.Float64Data, 0, len(rows))
	top := rows[0]
	for _, r := range rows {
		totals = append(totals, float64(r.ContributionsTotal))
		summary.Total += r.ContributionsTotal
		if r.ContributionsTotal > top.ContributionsTotal ||
			(r.ContributionsTotal == top.ContributionsTotal && r.Username < top.Username) {
			top = r
		}
	}
	summary.TopContributor = top.Username

	var err error
	if summary.Mean, err = totals.Mean(); err != nil {
		return nil, err
	}
	if summary.Median, err = totals.Median(); err != nil {
		return nil, err
	}
	if summary.StdDev, err = totals.StandardDeviation(); err != nil {
		return nil, err
	}
	if summary.P90, err = totals.PercentileNearestRank(90); err != nil {
		return nil, err
	}
	return summary, nil
}

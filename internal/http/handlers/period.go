package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
	"github.com/just-nibble/repo-analytics/pkg/response"
)

type PeriodHandler struct {
	aggregationUsecase usecases.AggregationUsecase
	queryUsecase       usecases.QueryUsecase
}

func NewPeriodHandler(aggregationUsecase usecases.AggregationUsecase, queryUsecase usecases.QueryUsecase) *PeriodHandler {
	return &PeriodHandler{
		aggregationUsecase: aggregationUsecase,
		queryUsecase:       queryUsecase,
	}
}

// Aggregate computes the developer contributions of an inclusive date window.
//
//	@Summary	Aggregate a contribution period
//	@Tags		periods
//	@Accept		json
//	@Produce	json
//	@Param		owner	path		string				true	"repository owner"
//	@Param		name	path		string				true	"repository name"
//	@Param		body	body		dtos.PeriodInput	true	"start_date and end_date, YYYY-MM-DD"
//	@Success	200		{object}	dtos.PeriodResponse
//	@Failure	400		{object}	map[string]string
//	@Router		/repositories/{owner}/{name}/periods [post]
func (h *PeriodHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req dtos.PeriodInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start, err := dtos.ParseDate(req.StartDate, time.Time{})
	if err != nil || start.IsZero() {
		response.Error(w, errcodes.Validation("start_date", "must be YYYY-MM-DD"))
		return
	}
	end, err := dtos.ParseDate(req.EndDate, time.Time{})
	if err != nil || end.IsZero() {
		response.Error(w, errcodes.Validation("end_date", "must be YYYY-MM-DD"))
		return
	}

	repo, err := h.queryUsecase.GetRepository(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	period, rows, err := h.aggregationUsecase.AggregatePeriod(r.Context(), repo.ID, start, end)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.PeriodResponse{Period: *period, Contributions: rows})
}

//	@Summary	Aggregated periods of a repository
//	@Tags		periods
//	@Produce	json
//	@Param		owner	path	string	true	"repository owner"
//	@Param		name	path	string	true	"repository name"
//	@Success	200		{array}	domain.ContributionPeriod
//	@Router		/repositories/{owner}/{name}/periods [get]
func (h *PeriodHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	periods, err := h.queryUsecase.Periods(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, periods)
}

//	@Summary	Developer rows of a period
//	@Tags		periods
//	@Produce	json
//	@Param		id	path		int	true	"period id"
//	@Success	200	{array}		domain.DeveloperContribution
//	@Failure	404	{object}	map[string]string
//	@Router		/periods/{id}/contributions [get]
func (h *PeriodHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	rows, err := h.queryUsecase.PeriodContributions(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, rows)
}

//	@Summary	Distribution of contributions in a period
//	@Tags		periods
//	@Produce	json
//	@Param		id	path		int	true	"period id"
//	@Success	200	{object}	domain.PeriodSummary
//	@Failure	404	{object}	map[string]string
//	@Router		/periods/{id}/summary [get]
func (h *PeriodHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	summary, err := h.aggregationUsecase.PeriodSummary(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, summary)
}

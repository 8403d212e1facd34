package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
	"github.com/just-nibble/repo-analytics/pkg/response"
)

type StatHandler struct {
	snapshotUsecase usecases.SnapshotUsecase
	queryUsecase    usecases.QueryUsecase
	now             func() time.Time
}

func NewStatHandler(snapshotUsecase usecases.SnapshotUsecase, queryUsecase usecases.QueryUsecase) *StatHandler {
	return &StatHandler{
		snapshotUsecase: snapshotUsecase,
		queryUsecase:    queryUsecase,
		now:             time.Now,
	}
}

// TakeSnapshot records the repository counts for a day, today when no date is given.
//
//	@Summary	Take a repository snapshot
//	@Tags		stats
//	@Accept		json
//	@Produce	json
//	@Param		owner	path		string				true	"repository owner"
//	@Param		name	path		string				true	"repository name"
//	@Param		body	body		dtos.SnapshotInput	false	"date, YYYY-MM-DD"
//	@Success	200		{object}	domain.RepoStat
//	@Router		/repositories/{owner}/{name}/snapshots [post]
func (h *StatHandler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req dtos.SnapshotInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date, err := dtos.ParseDate(req.Date, h.now().UTC())
	if err != nil {
		response.Error(w, errcodes.Validation("date", "must be YYYY-MM-DD"))
		return
	}

	repo, err := h.queryUsecase.GetRepository(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	stat, err := h.snapshotUsecase.TakeSnapshot(r.Context(), repo.ID, date)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, stat)
}

//	@Summary	Snapshots of a repository
//	@Tags		stats
//	@Produce	json
//	@Param		owner	path	string	true	"repository owner"
//	@Param		name	path	string	true	"repository name"
//	@Success	200		{array}	domain.RepoStat
//	@Router		/repositories/{owner}/{name}/stats [get]
func (h *StatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	stats, err := h.queryUsecase.Stats(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, stats)
}

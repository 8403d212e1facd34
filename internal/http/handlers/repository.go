package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
	"github.com/just-nibble/repo-analytics/pkg/response"
	"github.com/just-nibble/repo-analytics/pkg/validator"
)

type RepositoryHandler struct {
	syncUsecase  usecases.SyncUsecase
	queryUsecase usecases.QueryUsecase
}

func NewRepositoryHandler(syncUsecase usecases.SyncUsecase, queryUsecase usecases.QueryUsecase) *RepositoryHandler {
	return &RepositoryHandler{
		syncUsecase:  syncUsecase,
		queryUsecase: queryUsecase,
	}
}

// AddRepository registers a repository and starts ingesting it in the background.
//
//	@Summary	Track a repository
//	@Tags		repositories
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dtos.RepositoryInput	true	"owner, name and optional since date"
//	@Success	202		{object}	domain.Repository
//	@Failure	400		{object}	map[string]string
//	@Router		/repositories [post]
func (rh RepositoryHandler) AddRepository(w http.ResponseWriter, r *http.Request) {
	var req dtos.RepositoryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// "owner/name" in the name field is accepted too
	if req.Owner == "" && strings.Contains(req.Name, "/") {
		owner, name, err := validator.SplitRepository(req.Name)
		if err != nil {
			response.Error(w, err)
			return
		}
		req.Owner, req.Name = owner, name
	}
	if req.Owner == "" || req.Name == "" {
		response.Error(w, errcodes.ErrInvalidRepositoryName)
		return
	}

	since, err := dtos.ParseDate(req.Since, time.Time{})
	if err != nil {
		response.Error(w, errcodes.Validation("since", "must be YYYY-MM-DD"))
		return
	}

	repo, err := rh.syncUsecase.Track(r.Context(), req.Owner, req.Name, since)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusAccepted, repo)
}

//	@Summary	List tracked repositories
//	@Tags		repositories
//	@Produce	json
//	@Success	200	{array}	domain.Repository
//	@Router		/repositories [get]
func (rh RepositoryHandler) FetchAllRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := rh.queryUsecase.ListRepositories(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, repos)
}

//	@Summary	Get a repository
//	@Tags		repositories
//	@Produce	json
//	@Param		owner	path		string	true	"repository owner"
//	@Param		name	path		string	true	"repository name"
//	@Success	200		{object}	domain.Repository
//	@Failure	404		{object}	map[string]string
//	@Router		/repositories/{owner}/{name} [get]
func (rh RepositoryHandler) FetchRepository(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	repo, err := rh.queryUsecase.GetRepository(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, repo)
}

// TopContributors returns the n contributors with the highest counters.
//
//	@Summary	Top contributors
//	@Tags		repositories
//	@Produce	json
//	@Param		owner	path	string	true	"repository owner"
//	@Param		name	path	string	true	"repository name"
//	@Param		n		query	int		false	"number of contributors (default 10, max 100)"
//	@Success	200		{array}	domain.Contributor
//	@Router		/repositories/{owner}/{name}/contributors/top [get]
func (rh RepositoryHandler) TopContributors(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	contributors, err := rh.queryUsecase.TopContributors(r.Context(), owner, name, queryInt(r, "n"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, contributors)
}

//	@Summary	Get a repository by its public id
//	@Tags		repositories
//	@Produce	json
//	@Param		id	path		string	true	"repository public id"
//	@Success	200	{object}	domain.Repository
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/repositories/{id} [get]
func (rh RepositoryHandler) FetchRepositoryByID(w http.ResponseWriter, r *http.Request) {
	repo, err := rh.queryUsecase.GetRepositoryByPublicID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, repo)
}

//	@Summary	Pull requests of a repository
//	@Tags		repositories
//	@Produce	json
//	@Param		owner	path	string	true	"repository owner"
//	@Param		name	path	string	true	"repository name"
//	@Success	200		{array}	domain.PullRequest
//	@Router		/repositories/{owner}/{name}/pull-requests [get]
func (rh RepositoryHandler) PullRequests(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	prs, err := rh.queryUsecase.PullRequests(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, prs)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/just-nibble/repo-analytics/internal/usecases"
	"github.com/just-nibble/repo-analytics/pkg/response"
)

type CommitHandler struct {
	queryUsecase usecases.QueryUsecase
}

func NewCommitHandler(queryUsecase usecases.QueryUsecase) *CommitHandler {
	return &CommitHandler{queryUsecase: queryUsecase}
}

//	@Summary	List commits of a repository
//	@Tags		commits
//	@Produce	json
//	@Param		owner		path	string	true	"repository owner"
//	@Param		name		path	string	true	"repository name"
//	@Param		page		query	int		false	"page (default 1)"
//	@Param		limit		query	int		false	"page size (default 10, max 100)"
//	@Param		sort		query	string	false	"date, created_at, author_name, author_login or sha"
//	@Param		direction	query	string	false	"asc or desc"
//	@Success	200			{object}	dtos.MultiCommitsResponse
//	@Router		/repositories/{owner}/{name}/commits [get]
func (h *CommitHandler) GetCommitsByRepoName(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	commits, err := h.queryUsecase.Commits(r.Context(), owner, name, getPagingInfo(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, commits)
}

//	@Summary	One commit with its files
//	@Tags		commits
//	@Produce	json
//	@Param		owner	path		string	true	"repository owner"
//	@Param		name	path		string	true	"repository name"
//	@Param		sha		path		string	true	"commit sha"
//	@Success	200		{object}	domain.Commit
//	@Failure	404		{object}	map[string]string
//	@Router		/repositories/{owner}/{name}/commits/{sha} [get]
func (h *CommitHandler) GetCommit(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	commit, err := h.queryUsecase.Commit(r.Context(), owner, name, chi.URLParam(r, "sha"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, commit)
}

//	@Summary	Files touched by the most commits
//	@Tags		commits
//	@Produce	json
//	@Param		owner	path	string	true	"repository owner"
//	@Param		name	path	string	true	"repository name"
//	@Param		n		query	int		false	"number of files (default 10, max 100)"
//	@Success	200		{array}	domain.CriticalFile
//	@Router		/repositories/{owner}/{name}/critical-files [get]
func (h *CommitHandler) CriticalFiles(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	files, err := h.queryUsecase.CriticalFiles(r.Context(), owner, name, queryInt(r, "n"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, files)
}

//	@Summary	Bus factor
//	@Tags		commits
//	@Produce	json
//	@Param		owner	path		string	true	"repository owner"
//	@Param		name	path		string	true	"repository name"
//	@Success	200		{object}	domain.BusFactor
//	@Router		/repositories/{owner}/{name}/bus-factor [get]
func (h *CommitHandler) BusFactor(w http.ResponseWriter, r *http.Request) {
	owner, name, err := repoParams(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	bf, err := h.queryUsecase.BusFactor(r.Context(), owner, name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, bf)
}

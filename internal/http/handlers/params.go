package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

func getPagingInfo(r *http.Request) dtos.APIPagingDto {
	var paging dtos.APIPagingDto

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	paging.Limit = limit
	paging.Page = page
	paging.Sort = r.URL.Query().Get("sort")
	paging.Direction = r.URL.Query().Get("direction")

	return paging
}

func repoParams(r *http.Request) (string, string, error) {
	owner := chi.URLParam(r, "owner")
	if owner == "" {
		return "", "", errcodes.Validation("owner", "is required")
	}
	name := chi.URLParam(r, "name")
	if name == "" {
		return "", "", errcodes.Validation("name", "is required")
	}
	return owner, name, nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func idParam(r *http.Request, key string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil || id == 0 {
		return 0, errcodes.Validation(key, "must be a positive integer")
	}
	return uint(id), nil
}

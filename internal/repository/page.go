package repository

import (
	"fmt"
	"math"
	"strings"

	"github.com/just-nibble/repo-analytics/internal/http/dtos"
)

const (
	DEFAULTPAGE                  = 1
	DEFAULTLIMIT                 = 10
	MAXLIMIT                     = 100
	PageDefaultSortBy            = "date"
	PageDefaultSortDirectionDesc = "desc"
)

var commitSortColumns = map[string]string{
	"date":         "commits.date",
	"created_at":   "commits.created_at",
	"author_name":  "commits.author_name",
	"author_login": "commits.author_login",
	"sha":          "commits.sha",
}

func getPaginationInfo(query dtos.APIPagingDto) (dtos.APIPagingDto, int) {
	var offset int
	// load defaults
	if query.Page <= 0 {
		query.Page = DEFAULTPAGE
	}
	if query.Limit <= 0 {
		query.Limit = DEFAULTLIMIT
	}
	if query.Limit > MAXLIMIT {
		query.Limit = MAXLIMIT
	}
	// keeps the offset and Page*Limit inside int32 for every driver
	if maxPage := math.MaxInt32 / query.Limit; query.Page > maxPage {
		query.Page = maxPage
	}

	if _, ok := commitSortColumns[query.Sort]; !ok {
		query.Sort = PageDefaultSortBy
	}

	query.Direction = strings.ToLower(query.Direction)
	if query.Direction != "asc" && query.Direction != "desc" {
		query.Direction = PageDefaultSortDirectionDesc
	}

	if query.Page > 1 {
		offset = query.Limit * (query.Page - 1)
	}
	return query, offset
}

func orderClause(query dtos.APIPagingDto) string {
	return fmt.Sprintf("%s %s, commits.id %s", commitSortColumns[query.Sort], query.Direction, query.Direction)
}

func getPagingInfo(query dtos.APIPagingDto, count int) dtos.PagingInfo {
	return dtos.PagingInfo{
		TotalCount:  int64(count),
		HasNextPage: query.Page*query.Limit < count,
		Page:        query.Page,
	}
}

package dtos

type APIPagingDto struct {
	Limit     int    `json:"limit"`
	Page      int    `json:"page"`
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
}

type PagingInfo struct {
	TotalCount  int64 `json:"total_count"`
	Page        int   `json:"page"`
	HasNextPage bool  `json:"has_next_page"`
	Count       int   `json:"count"`
}

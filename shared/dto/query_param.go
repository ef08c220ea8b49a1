package dto

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"travel/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries paging and ordering for list endpoints.
// SortBy is matched against the repository's known columns before it reaches SQL.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit and ordering from the query string.
// Ordering accepts either sort_by/sort_dir or a signed ordering=-field, the latter winning.
// With withDefaults set, missing page and limit fall back to the configured defaults.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	q.Page = positive(values, constant.RequestParamPage, q.Page)
	q.Limit = min(positive(values, constant.RequestParamLimit, q.Limit), constant.MaxValueLimit)

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if ordering := values.Get(constant.RequestParamOrder); ordering != "" {
		q.SortBy, q.SortDir = strings.TrimPrefix(ordering, "-"), SortDirAsc
		if strings.HasPrefix(ordering, "-") {
			q.SortDir = SortDirDesc
		}
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the row offset of the current page.
func (q QueryParams) Offset() int {
	if q.Page < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

func positive(values url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

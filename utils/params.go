package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page  int
	Limit int
	Lang  string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	lang := q.Get("lang")
	if lang == "" {
		lang = "es"
	}

	return QueryOptions{
		Page:  page,
		Limit: limit,
		Lang:  lang,
	}
}

// Skip converts page/limit into the query offset.
func (q QueryOptions) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

// TotalPages derives the page count for pagination metadata.
func TotalPages(total int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}

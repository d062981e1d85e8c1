package pipeline

import "github.com/yxzhu/newsflash/app/database"

const defaultListLimit = 20

// ListQuery carries the caller-facing listing parameters. Page-based
// pagination stops at this boundary; the store only ever sees skip/limit.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Source   string
}

// Options translates the query into store options: skip = (page-1)*limit
// when page > 1, search becomes the keyword filter.
func (q ListQuery) Options() database.ListOptions {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	skip := 0
	if q.Page > 1 {
		skip = (q.Page - 1) * limit
	}

	return database.ListOptions{
		Category: q.Category,
		Source:   q.Source,
		Keyword:  q.Search,
		Skip:     skip,
		Limit:    limit,
	}
}

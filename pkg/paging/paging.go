package paging

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination describes the page a PagedResult holds.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PagedResult is the envelope every list operation returns.
type PagedResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Request carries the page/limit query parameters of a list call.
type Request struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize clamps page below 1 to 1 and replaces an invalid limit with
// defaultLimit. A limit above maxLimit is capped.
func (r Request) Normalize(defaultLimit, maxLimit int) Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if maxLimit > 0 && r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	return r
}

// Paginate returns the page-th slice of items, limit items per page.
// page must be >= 1 and limit > 0; callers normalize before calling.
func Paginate[T any](items []T, page, limit int) PagedResult[T] {
	total := len(items)

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return PagedResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: TotalPages(total, limit),
		},
	}
}

// TotalPages is ceil(total/limit), 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total == 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

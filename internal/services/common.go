package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
	"github.com/aibizeyes/admin-gateway/pkg/response"
)

// listQuery encodes the active filters and the page as upstream query
// parameters.
func listQuery(set filter.Set, page paging.Request) url.Values {
	q := url.Values{}
	for k, v := range set.Active() {
		q.Set(k, v)
	}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("limit", strconv.Itoa(page.Limit))
	return q
}

// listOrMock asks the upstream for one page of a list and, when it cannot
// answer, filters and pages source() locally.
func listOrMock[T any](
	ctx context.Context,
	up *upstream.Client,
	op, path string,
	set filter.Set,
	page paging.Request,
	schema filter.Schema[T],
	source func() []T,
) paging.PagedResult[T] {
	page = page.Normalize(paging.DefaultLimit, paging.MaxLimit)

	result := upstream.Fetch[paging.PagedResult[T]](ctx, up, op, path, listQuery(set, page)).
		OrElse(func() paging.PagedResult[T] {
			return paging.Paginate(schema.Apply(source(), set), page.Page, page.Limit)
		})
	if result.Data == nil {
		result.Data = []T{}
	}
	return result
}

// notFound turns store.ErrNotFound into a 404 naming the entity.
func notFound(err error, entity string) error {
	if errors.Is(err, store.ErrNotFound) {
		return response.NewNotFound(entity + " not found")
	}
	return err
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// within reports whether t falls in [from, to). Zero bounds are open.
func within(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// dateRange parses YYYY-MM-DD bounds in loc; end is inclusive of its whole
// day.
func dateRange(start, end string, loc *time.Location) (time.Time, time.Time) {
	var from, to time.Time
	if t, err := time.ParseInLocation(time.DateOnly, start, loc); err == nil {
		from = t
	}
	if t, err := time.ParseInLocation(time.DateOnly, end, loc); err == nil {
		to = t.AddDate(0, 0, 1)
	}
	return from, to
}

func boolString(b bool) string {
	return strconv.FormatBool(b)
}

func ptr[T any](v T) *T {
	return &v
}

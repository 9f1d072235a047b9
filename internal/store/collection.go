package store

import (
	"errors"
	"sync"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
)

// ErrNotFound is returned when a mutation targets an id that does not exist.
var ErrNotFound = errors.New("record not found")

// Record is satisfied by a pointer to any entity embedding models.Base.
type Record[T any] interface {
	*T
	Meta() *models.Base
}

// Collection is a mutex-guarded in-memory table of T kept in insertion order.
type Collection[T any, P Record[T]] struct {
	mu    sync.RWMutex
	items []T
	maxID int64
	now   func() time.Time
}

func newCollection[T any, P Record[T]](now func() time.Time) *Collection[T, P] {
	return &Collection[T, P]{now: now}
}

// List returns a copy of every record.
func (c *Collection[T, P]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Filter returns the records for which keep reports true, in order.
func (c *Collection[T, P]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *Collection[T, P]) Get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], nil
	}
	var zero T
	return zero, ErrNotFound
}

func (c *Collection[T, P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Create assigns a fresh id and createdAt to rec, appends it and returns the
// stored copy. Ids derive from the wall clock in milliseconds and are bumped
// when that would collide with an existing record.
func (c *Collection[T, P]) Create(rec T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	id := now.UnixMilli()
	if id <= c.maxID {
		id = c.maxID + 1
	}
	c.maxID = id

	meta := P(&rec).Meta()
	meta.ID = id
	meta.CreatedAt = now
	meta.UpdatedAt = nil

	c.items = append(c.items, rec)
	return rec
}

// Update applies fn to the record with the given id and stamps updatedAt.
// The new updatedAt is always strictly after the previous one.
func (c *Collection[T, P]) Update(id int64, fn func(*T)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}

	rec := &c.items[i]
	meta := P(rec).Meta()
	createdAt, prev := meta.CreatedAt, meta.UpdatedAt

	fn(rec)

	// fn may not reassign identity or history.
	meta.ID = id
	meta.CreatedAt = createdAt
	meta.UpdatedAt = prev
	now := c.now()
	if meta.UpdatedAt != nil && !now.After(*meta.UpdatedAt) {
		now = meta.UpdatedAt.Add(time.Millisecond)
	}
	meta.UpdatedAt = &now

	return *rec, nil
}

// Delete removes the record with the given id. Deleting a missing id is a
// no-op and reports false.
func (c *Collection[T, P]) Delete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// DeleteWhere removes every record matching drop and returns how many went.
func (c *Collection[T, P]) DeleteWhere(drop func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if drop(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	clear(c.items[len(kept):])
	c.items = kept
	return removed
}

// replace swaps the contents wholesale, keeping the given ids.
func (c *Collection[T, P]) replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]T, len(items))
	copy(c.items, items)
	c.maxID = 0
	for i := range c.items {
		if id := P(&c.items[i]).Meta().ID; id > c.maxID {
			c.maxID = id
		}
	}
}

func (c *Collection[T, P]) indexOf(id int64) int {
	for i := range c.items {
		if P(&c.items[i]).Meta().ID == id {
			return i
		}
	}
	return -1
}

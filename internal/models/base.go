package models

import "time"

// Base carries the identity and timestamps every mock entity shares.
type Base struct {
	ID        int64      `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Meta exposes the shared fields to the in-memory store.
func (b *Base) Meta() *Base { return b }

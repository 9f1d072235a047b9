package models

import "time"

const (
	FetchStatusSuccess = "success"
	FetchStatusFailed  = "failed"
	FetchStatusRunning = "running"
	FetchStatusPending = "pending"
)

// FetchLog records one crawl of a tender source.
type FetchLog struct {
	Base
	Source       string     `json:"source"`
	URL          string     `json:"url"`
	Status       string     `json:"status"` // success, failed, running, pending
	ItemsFetched int        `json:"itemsFetched"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	DurationMs   int64      `json:"durationMs"`
	RetryCount   int        `json:"retryCount"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

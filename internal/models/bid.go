package models

import "time"

const (
	BidStatusOpen    = "open"
	BidStatusClosing = "closing"
	BidStatusClosed  = "closed"
	BidStatusAwarded = "awarded"
)

// Bid is a tracked tender. The console only aggregates them; the bid
// screens themselves live in the core product.
type Bid struct {
	Base
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Region   string    `json:"region"`
	Source   string    `json:"source"`
	Status   string    `json:"status"` // open, closing, closed, awarded
	Budget   float64   `json:"budget"`
	Deadline time.Time `json:"deadline"`
}

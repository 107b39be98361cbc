package model

import "time"

// Deal is the slice of the deal entity this engine reads and writes:
// the temperature aggregate and the freeze flag. Everything else about a
// deal is owned by the content CRUD layer.
type Deal struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"authorId"`
	Title        string    `json:"title,omitempty"`
	Temperature  int       `json:"temperature"`
	VotingFrozen bool      `json:"votingFrozen"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DealResponse is the API response for deal temperature lookups.
type DealResponse struct {
	DealID       int64 `json:"dealId"`
	Temperature  int   `json:"temperature"`
	VotingFrozen bool  `json:"votingFrozen"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID           uuid.UUID `json:"id"`
	ReportID     int64     `json:"report_id"`
	VoterAddress string    `json:"voter_address"`
	IsScam       bool      `json:"is_scam"`
	CreatedAt    time.Time `json:"created_at"`
}

type VoteRequest struct {
	ReportID     int64  `json:"report_id" validate:"required"`
	VoterAddress string `json:"voter_address" validate:"required,wallet"`
	IsScam       *bool  `json:"is_scam" validate:"required"`
}

// VoteResult is the tally snapshot observed atomically with the vote,
// after confirmation evaluation.
type VoteResult struct {
	Upvotes       int  `json:"upvotes"`
	Downvotes     int  `json:"downvotes"`
	ConfirmedScam bool `json:"confirmed_scam"`
}

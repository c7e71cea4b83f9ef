package model

import (
	"time"
)

type Report struct {
	ID              int64     `json:"id"`
	URL             string    `json:"url"`
	Fingerprint     string    `json:"fingerprint"`
	ReporterAddress string    `json:"reporter_address"`
	Description     *string   `json:"description,omitempty"`
	EvidenceURL     *string   `json:"evidence_url,omitempty"`
	PhishingScore   *float64  `json:"phishing_score,omitempty"`
	RiskLevel       string    `json:"risk_level,omitempty"` // derived from PhishingScore
	UpvotesCount    int       `json:"upvotes_count"`
	DownvotesCount  int       `json:"downvotes_count"`
	ConfirmedScam   bool      `json:"confirmed_scam"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateReportRequest struct {
	URL             string `json:"url" validate:"required,identifier"`
	ReporterAddress string `json:"reporter_address" validate:"required,wallet"`
	Description     string `json:"description,omitempty"`
	EvidenceImage   string `json:"evidence_image,omitempty"`
}

type ListReportsParams struct {
	Status string // all | confirmed | pending
	Search string // case-insensitive substring on url or reporter
}

type DashboardStats struct {
	TotalReports    int64 `json:"total_reports"`
	ConfirmedScams  int64 `json:"confirmed_scams"`
	PendingReports  int64 `json:"pending_reports"`
	TotalVotes      int64 `json:"total_votes"`
	UniqueReporters int64 `json:"unique_reporters"`
}

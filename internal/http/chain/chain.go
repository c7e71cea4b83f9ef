package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

// ChainClient talks to the PhishBlock ledger bridge, the service that
// anchors reports and votes on chain. The bridge mirrors the contract
// surface: submitReport, vote, getReport, hasVoted, isReported.
type ChainClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewChainClient creates a new bridge client instance
func NewChainClient(baseURL, apiKey string) *ChainClient {
	if baseURL == "" {
		log.Println("Warning: chain bridge URL is empty, anchoring disabled.")
	}
	return &ChainClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a bridge endpoint is configured.
func (cc *ChainClient) Enabled() bool {
	return cc.BaseURL != ""
}

// ReportView is the on-chain view of a report.
type ReportView struct {
	ID          int64  `json:"id"`
	URLHash     string `json:"url_hash"`
	Reporter    string `json:"reporter"`
	Upvotes     int    `json:"upvotes"`
	Downvotes   int    `json:"downvotes"`
	IsConfirmed bool   `json:"is_confirmed"`
	Timestamp   int64  `json:"timestamp"`
}

type submitReportRequest struct {
	URLHash string `json:"url_hash"`
}

type submitReportResponse struct {
	ReportID int64 `json:"report_id"`
}

type voteRequest struct {
	ReportID int64 `json:"report_id"`
	IsScam   bool  `json:"is_scam"`
}

type hasVotedParams struct {
	ReportID int64  `url:"report_id"`
	Voter    string `url:"voter"`
}

type hasVotedResponse struct {
	HasVoted bool `json:"has_voted"`
}

type isReportedParams struct {
	URLHash string `url:"url_hash"`
}

type isReportedResponse struct {
	Reported bool  `json:"reported"`
	ReportID int64 `json:"report_id"`
}

type thresholdResponse struct {
	Threshold int `json:"confirmation_threshold"`
}

// SubmitReport anchors a new report fingerprint and returns the on-chain report id.
func (cc *ChainClient) SubmitReport(ctx context.Context, urlHash string) (int64, error) {
	var resp submitReportResponse
	if err := cc.post(ctx, "/reports", submitReportRequest{URLHash: urlHash}, &resp); err != nil {
		return 0, err
	}
	return resp.ReportID, nil
}

// Vote anchors a vote on an existing on-chain report.
func (cc *ChainClient) Vote(ctx context.Context, reportID int64, isScam bool) error {
	return cc.post(ctx, "/votes", voteRequest{ReportID: reportID, IsScam: isScam}, nil)
}

// GetReport fetches the on-chain view of a report.
func (cc *ChainClient) GetReport(ctx context.Context, reportID int64) (*ReportView, error) {
	var view ReportView
	if err := cc.get(ctx, fmt.Sprintf("/reports/%d", reportID), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// HasVoted checks whether a voter has already voted on an on-chain report.
func (cc *ChainClient) HasVoted(ctx context.Context, reportID int64, voter string) (bool, error) {
	var resp hasVotedResponse
	if err := cc.get(ctx, "/has-voted", hasVotedParams{ReportID: reportID, Voter: voter}, &resp); err != nil {
		return false, err
	}
	return resp.HasVoted, nil
}

// IsReported checks whether a fingerprint is already anchored, and under which id.
func (cc *ChainClient) IsReported(ctx context.Context, urlHash string) (bool, int64, error) {
	var resp isReportedResponse
	if err := cc.get(ctx, "/is-reported", isReportedParams{URLHash: urlHash}, &resp); err != nil {
		return false, 0, err
	}
	return resp.Reported, resp.ReportID, nil
}

// ConfirmationThreshold reads the contract's confirmation threshold constant.
func (cc *ChainClient) ConfirmationThreshold(ctx context.Context) (int, error) {
	var resp thresholdResponse
	if err := cc.get(ctx, "/confirmation-threshold", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Threshold, nil
}

func (cc *ChainClient) post(ctx context.Context, path string, payload, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode bridge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return cc.do(req, target)
}

func (cc *ChainClient) get(ctx context.Context, path string, params, target interface{}) error {
	fullURL := cc.BaseURL + path
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("failed to encode bridge params: %w", err)
		}
		fullURL = fmt.Sprintf("%s?%s", fullURL, values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create bridge request: %w", err)
	}

	return cc.do(req, target)
}

func (cc *ChainClient) do(req *http.Request, target interface{}) error {
	if cc.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cc.APIKey)
	}

	resp, err := cc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute bridge request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read bridge response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chain bridge error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode bridge response: %w", err)
	}
	return nil
}

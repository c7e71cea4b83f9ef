package safebrowsing

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	sb "google.golang.org/api/safebrowsing/v4"
)

// Client wraps the Google Safe Browsing v4 lookup API. Used as a
// supplementary threat-intel source; the rule-based scorer stays pure.
type Client struct {
	service *sb.Service
}

// NewClient creates a Safe Browsing client. Returns nil when no API key
// is configured; callers treat a nil client as lookups disabled.
func NewClient(ctx context.Context, apiKey string) *Client {
	if apiKey == "" {
		log.Println("Warning: Safe Browsing API key is empty, intel lookups disabled.")
		return nil
	}

	service, err := sb.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("failed to initialize Safe Browsing service: %v", err)
		return nil
	}

	return &Client{service: service}
}

// ThreatMatch is a single Safe Browsing hit for a URL.
type ThreatMatch struct {
	ThreatType      string `json:"threat_type"`
	PlatformType    string `json:"platform_type"`
	ThreatEntryType string `json:"threat_entry_type"`
}

// Lookup queries the threatMatches.find endpoint for a single URL.
func (c *Client) Lookup(ctx context.Context, rawURL string) ([]ThreatMatch, error) {
	req := &sb.GoogleSecuritySafebrowsingV4FindThreatMatchesRequest{
		Client: &sb.GoogleSecuritySafebrowsingV4ClientInfo{
			ClientId:      "phishblock",
			ClientVersion: "1.0.0",
		},
		ThreatInfo: &sb.GoogleSecuritySafebrowsingV4ThreatInfo{
			ThreatTypes:      []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"},
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries: []*sb.GoogleSecuritySafebrowsingV4ThreatEntry{
				{Url: rawURL},
			},
		},
	}

	resp, err := c.service.ThreatMatches.Find(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("safe browsing lookup failed: %w", err)
	}

	matches := make([]ThreatMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, ThreatMatch{
			ThreatType:      m.ThreatType,
			PlatformType:    m.PlatformType,
			ThreatEntryType: m.ThreatEntryType,
		})
	}
	return matches, nil
}

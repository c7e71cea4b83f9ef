package phishing

import (
	"net/url"
	"regexp"
	"strings"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Bucket thresholds. These are shared by every surface that renders a
// numeric score, so they must not drift.
const (
	HighRiskThreshold   = 70.0
	MediumRiskThreshold = 40.0
)

// Features is the fixed signal set extracted from a canonical URL.
type Features struct {
	URLLength            int     `json:"url_length"`
	HasIPAddress         bool    `json:"has_ip_address"`
	HasAtSymbol          bool    `json:"has_at_symbol"`
	HasSuspiciousKeyword bool    `json:"has_suspicious_keyword"`
	SubdomainCount       int     `json:"subdomain_count"`
	HasSuspiciousTLD     bool    `json:"has_suspicious_tld"`
	HasHyphenInDomain    bool    `json:"has_hyphen_in_domain"`
	UsesHTTPS            bool    `json:"uses_https"`
	DigitRatioInDomain   float64 `json:"digit_ratio_in_domain"`
}

// Assessment is the scorer output attached to reports and returned by the
// analyze endpoint. Probability is in [0,100].
type Assessment struct {
	Features    Features  `json:"features"`
	Probability float64   `json:"probability"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Per-feature weights. Additive, clamped to [0,100].
const (
	weightLongURL       = 10.0
	weightIPAddress     = 30.0
	weightAtSymbol      = 20.0
	weightKeyword       = 25.0
	weightSubdomains    = 10.0
	weightSuspiciousTLD = 30.0
	weightHyphen        = 10.0
	weightNoHTTPS       = 15.0
	weightDomainDigits  = 10.0
)

const (
	longURLThreshold   = 75
	subdomainThreshold = 3
)

var suspiciousKeywords = []string{
	"login", "verify", "secure", "account", "update", "banking", "wallet", "crypto",
}

var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top",
}

var ipHostPattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// Analyze normalizes the input and scores it. Pure and deterministic:
// the same input always yields the same assessment, and every parseable
// input yields a score.
func Analyze(raw string) (Assessment, error) {
	ident, err := Normalize(raw)
	if err != nil {
		return Assessment{}, err
	}
	return Score(ident), nil
}

// Score extracts the feature vector from a canonical identifier and
// accumulates the weighted probability.
func Score(ident Identifier) Assessment {
	features := extractFeatures(ident)

	score := 0.0
	if features.URLLength > longURLThreshold {
		score += weightLongURL
	}
	if features.HasIPAddress {
		score += weightIPAddress
	}
	if features.HasAtSymbol {
		score += weightAtSymbol
	}
	if features.HasSuspiciousKeyword {
		score += weightKeyword
	}
	if features.SubdomainCount >= subdomainThreshold {
		score += weightSubdomains
	}
	if features.HasSuspiciousTLD {
		score += weightSuspiciousTLD
	}
	if features.HasHyphenInDomain {
		score += weightHyphen
	}
	if !features.UsesHTTPS {
		score += weightNoHTTPS
	}
	if features.DigitRatioInDomain > 0 {
		score += weightDomainDigits
	}

	if score > 100 {
		score = 100
	}

	return Assessment{
		Features:    features,
		Probability: score,
		RiskLevel:   Bucket(score),
	}
}

// Bucket maps a probability to its risk level.
func Bucket(probability float64) RiskLevel {
	switch {
	case probability >= HighRiskThreshold:
		return RiskHigh
	case probability >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

func extractFeatures(ident Identifier) Features {
	features := Features{URLLength: len(ident.Canonical)}

	if ident.Kind == KindAddress {
		// Wallet addresses carry none of the URL signals.
		return features
	}

	u, err := url.Parse(ident.Canonical)
	if err != nil {
		return features
	}
	host := u.Hostname()

	features.HasIPAddress = ipHostPattern.MatchString(host)
	features.HasAtSymbol = strings.Contains(ident.Canonical, "@")
	features.HasSuspiciousKeyword = containsAny(ident.Canonical, suspiciousKeywords)
	features.UsesHTTPS = u.Scheme == "https"
	features.HasHyphenInDomain = strings.Contains(host, "-")

	if !features.HasIPAddress {
		if parts := strings.Split(host, "."); len(parts) > 2 {
			features.SubdomainCount = len(parts) - 2
		}
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				features.HasSuspiciousTLD = true
				break
			}
		}
	}

	if len(host) > 0 {
		digits := 0
		for _, c := range host {
			if c >= '0' && c <= '9' {
				digits++
			}
		}
		features.DigitRatioInDomain = float64(digits) / float64(len(host))
	}

	return features
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

package phishing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidInput is returned when the submitted string is neither a
// plausible URL nor a wallet address.
var ErrInvalidInput = errors.New("invalid url or address")

type IdentifierKind string

const (
	KindURL     IdentifierKind = "URL"
	KindAddress IdentifierKind = "ADDRESS"
)

// Identifier is the canonical form of a submitted URL or wallet address.
// Fingerprint is the dedup key used by the report store; two submissions
// that canonicalize to the same string share a fingerprint.
type Identifier struct {
	Kind        IdentifierKind `json:"kind"`
	Canonical   string         `json:"canonical"`
	Fingerprint string         `json:"fingerprint"`
}

var (
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	hostPattern    = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)
)

// Normalize canonicalizes a submitted URL or wallet address and derives its
// fingerprint. URLs are lower-cased, default ports and trailing slashes are
// stripped, and path/query are preserved so different paths on the same host
// stay distinct. Addresses are lower-cased hex.
func Normalize(raw string) (Identifier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Identifier{}, ErrInvalidInput
	}

	if addressPattern.MatchString(trimmed) {
		canonical := strings.ToLower(trimmed)
		return Identifier{
			Kind:        KindAddress,
			Canonical:   canonical,
			Fingerprint: fingerprint(canonical),
		}, nil
	}

	canonical, err := canonicalURL(trimmed)
	if err != nil {
		return Identifier{}, err
	}
	return Identifier{
		Kind:        KindURL,
		Canonical:   canonical,
		Fingerprint: fingerprint(canonical),
	}, nil
}

func canonicalURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidInput
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", ErrInvalidInput
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || !strings.Contains(host, ".") || !hostPattern.MatchString(host) {
		return "", ErrInvalidInput
	}

	// Keep non-default ports, they distinguish phishing targets.
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}

	path := strings.TrimSuffix(u.EscapedPath(), "/")

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteString("@")
	}
	b.WriteString(host)
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}

	return strings.ToLower(b.String()), nil
}

func fingerprint(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

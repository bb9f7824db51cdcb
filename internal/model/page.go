package model

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// Page is the raw result of fetching one listing page.
type Page struct {
	// URL is the URL that was requested.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains the HTTP response headers in canonical form.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the Content-Type header of the response.
	ContentType string `json:"content_type"`

	// Body is the response body, capped at the fetcher's body limit.
	Body []byte `json:"-"`

	// Truncated is true when the response was longer than the body limit.
	Truncated bool `json:"truncated,omitempty"`

	// Hash is the hex SHA3-256 digest of Body.
	// Two fetches of an unchanged listing page produce the same hash.
	Hash string `json:"hash"`

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetched_at"`

	// Duration is how long the request took.
	Duration time.Duration `json:"duration"`
}

// ComputeHash calculates and sets the SHA3-256 hash of the page body.
// This should be called after setting the Body field.
func (p *Page) ComputeHash() {
	if len(p.Body) == 0 {
		p.Hash = ""
		return
	}

	sum := sha3.Sum256(p.Body)
	p.Hash = hex.EncodeToString(sum[:])
}

// IsHTML returns true if the page content type indicates HTML.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

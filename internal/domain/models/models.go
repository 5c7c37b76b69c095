// Package models provides the JSON shapes exchanged with the URL shortener API.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayout is the ISO 8601 form the API emits for timestamps without a UTC offset.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp - a point in time as sent by the API. Both RFC 3339 values and
// values without an offset are accepted; the latter are read as local time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler. null leaves t unchanged.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.ParseInLocation(naiveLayout, s, time.Local)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

// ShortenedURL - summary of a shortened URL as returned by the API.
type ShortenedURL struct {
	// Shortcode: short identifier, unique per active link.
	Shortcode string `json:"shortcode"`
	// OriginalURL: URL the short link redirects to.
	OriginalURL string `json:"original_url"`
	// ShortURL: full short link.
	ShortURL string `json:"short_url"`
	// ClickCount: number of recorded redirects.
	ClickCount int `json:"click_count"`
	// IsExpired: set by the list and stats endpoints; the create endpoints omit it.
	IsExpired bool `json:"is_expired"`
	// CreatedAt, ExpiresAt: lifetime of the link.
	CreatedAt Timestamp `json:"created_at"`
	ExpiresAt Timestamp `json:"expires_at"`
}

// Status returns the label shown on the status chip.
func (u ShortenedURL) Status() string {
	if u.IsExpired {
		return "Expired"
	}
	return "Active"
}

// ClickRecord - a single redirect through a short URL.
type ClickRecord struct {
	Timestamp Timestamp `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// URLStats - ShortenedURL with its click history in server order.
type URLStats struct {
	ShortenedURL
	ClickHistory []ClickRecord `json:"click_history"`
}

// URLList - response of GET /api/urls.
type URLList struct {
	URLs []URLStats `json:"urls"`
}

// CreateRequest - body of POST /shorten and one element of POST /shorten/bulk.
type CreateRequest struct {
	OriginalURL     string `json:"original_url"`
	ValidityMinutes int    `json:"validity_minutes"`
	CustomShortcode string `json:"custom_shortcode,omitempty"`
}

package model

import (
	"strings"
	"time"
)

// Claim represents a unit of text tracked for relatedness to other claims
type Claim struct {
	ID             string    `json:"id"`                        // Caller-assigned, globally unique
	Text           string    `json:"text"`                      // Raw claim text
	NormalizedText string    `json:"normalized_text,omitempty"` // Lower-cased text used for matching
	Timestamp      time.Time `json:"timestamp"`                 // When the claim was first observed
	SourceURL      string    `json:"source_url,omitempty"`      // Where the claim was seen (optional)
	Platform       string    `json:"platform"`                  // Originating platform tag
}

// PlatformUnknown is the default platform tag when the source platform
// was not reported
const PlatformUnknown = "unknown"

// ClaimInput is the per-claim request submitted to the engine
type ClaimInput struct {
	ClaimID   string        `json:"claim_id"`
	ClaimText string        `json:"claim_text"`
	Metadata  ClaimMetadata `json:"metadata"`
}

// ClaimMetadata carries optional claim attributes from the caller
type ClaimMetadata struct {
	Timestamp string `json:"timestamp,omitempty"` // RFC3339; empty or unparseable falls back to now
	SourceURL string `json:"source_url,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// Claim builds the canonical claim record from an input, applying defaults.
// An unparseable timestamp is treated as "now" rather than rejected; the
// caller is expected to log the anomaly.
func (in ClaimInput) Claim(now time.Time) (Claim, bool) {
	ts, ok := ParseTimestamp(in.Metadata.Timestamp, now)

	platform := in.Metadata.Platform
	if platform == "" {
		platform = PlatformUnknown
	}

	return Claim{
		ID:             in.ClaimID,
		Text:           in.ClaimText,
		NormalizedText: strings.ToLower(in.ClaimText),
		Timestamp:      ts,
		SourceURL:      in.Metadata.SourceURL,
		Platform:       platform,
	}, ok
}

// ParseTimestamp parses a claim timestamp in the accepted wire formats.
// Returns the fallback and false when the value is empty or malformed.
func ParseTimestamp(value string, fallback time.Time) (time.Time, bool) {
	if value == "" {
		return fallback, false
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if ts, err := time.Parse(format, value); err == nil {
			return ts, true
		}
	}

	return fallback, false
}

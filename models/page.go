package models

import (
	"time"
)

// Page represents an ephemeral HTML page in the system
type Page struct {
	Slug      string    `json:"slug" bson:"_id"`
	Content   string    `json:"-" bson:"content"` // Raw HTML, never exposed in metadata JSON
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	Assets    []string  `json:"assets" bson:"assets"`
}

// IsExpired reports whether the page is past its TTL at the given instant.
// Expiry is a pure function of time; pages carry no stored state flag.
func (p *Page) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Remaining returns the time left before expiry, never negative.
func (p *Page) Remaining(now time.Time) time.Duration {
	if p.IsExpired(now) {
		return 0
	}
	return p.ExpiresAt.Sub(now)
}

package storage

import (
	"errors"
	"time"

	"github.com/pagebin/pagebin/models"
)

// ErrDuplicateSlug is returned by Insert when a record with the same slug is
// already present. The slug generator pre-checks for collisions, so this is a
// backstop for the check-then-insert window, not an expected outcome.
var ErrDuplicateSlug = errors.New("slug already exists")

// PageStore defines the interface for page storage backends.
//
// Get returns raw presence: an expired-but-not-yet-swept page is still
// returned. Liveness decisions belong to the expiry engine, which owns the
// delete-on-expiry side effects.
type PageStore interface {
	// Insert saves a new page. Fails with ErrDuplicateSlug if the slug is
	// already present.
	Insert(page *models.Page) error

	// Get retrieves a page by its slug. Returns (nil, nil) when absent.
	Get(slug string) (*models.Page, error)

	// Exists checks if a page exists by its slug.
	Exists(slug string) (bool, error)

	// Delete removes a page from storage. Deleting an absent slug is not an
	// error.
	Delete(slug string) error

	// FindExpired returns all pages with expires_at at or before the given
	// instant. Safe to call concurrently with inserts and reads.
	FindExpired(before time.Time) ([]*models.Page, error)

	// DeleteMany removes exactly the given slugs. Used by the sweep to delete
	// the batch it already resolved, never a fresh expiry re-query.
	DeleteMany(slugs []string) error

	// Close closes the storage connection.
	Close() error
}

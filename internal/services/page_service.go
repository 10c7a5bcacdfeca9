package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pagebin/pagebin/config"
	"github.com/pagebin/pagebin/internal/expiry"
	"github.com/pagebin/pagebin/internal/metrics"
	"github.com/pagebin/pagebin/models"
	"github.com/pagebin/pagebin/storage"
	"github.com/pagebin/pagebin/utils"
)

// ErrNotFound signals that no page with the given slug exists. Distinct from
// expiry.ErrExpired: an expired slug existed and was deleted on access.
var ErrNotFound = errors.New("page not found")

// ErrInvalidTTL signals a requested TTL outside the configured bounds.
var ErrInvalidTTL = errors.New("ttl out of range")

// ErrEmptyContent signals a create request with no HTML payload.
var ErrEmptyContent = errors.New("empty content")

// PageService orchestrates slug generation, the record store and the expiry
// engine to implement create/read.
type PageService struct {
	store   storage.PageStore
	engine  *expiry.Engine
	config  *config.Config
	timeNow func() time.Time
}

// NewPageService creates a new page service
func NewPageService(store storage.PageStore, engine *expiry.Engine, cfg *config.Config) *PageService {
	return &PageService{
		store:   store,
		engine:  engine,
		config:  cfg,
		timeNow: time.Now,
	}
}

// CreatePageRequest represents a request to create a page
type CreatePageRequest struct {
	HTML   string
	TTL    time.Duration // zero means the configured default
	Assets []string
}

// CreatePageResponse represents the response from creating a page
type CreatePageResponse struct {
	Slug      string
	Path      string // site-relative, /p/<slug>
	ExpiresAt time.Time
	TTL       time.Duration
}

// GenerateSlug generates a slug that does not collide with any currently
// stored one. The check is against raw presence: an expired-but-unswept slug
// is still taken, since the store represents both uniformly.
func (s *PageService) GenerateSlug() (string, error) {
	const maxAttempts = 100

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := utils.SecureRandomSlug(s.config.SlugLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug: %w", err)
		}

		exists, err := s.store.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug existence: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	// With ~47 bits of slug entropy this is unreachable in practice.
	return "", fmt.Errorf("failed to generate unique slug after %d attempts", maxAttempts)
}

// CreatePage validates the TTL, allocates a slug and inserts the record.
// Insert-level duplicate detection backstops the generator's pre-check: the
// tiny check-then-insert window is closed by retrying with a fresh slug.
func (s *PageService) CreatePage(req CreatePageRequest) (*CreatePageResponse, error) {
	if strings.TrimSpace(req.HTML) == "" {
		return nil, ErrEmptyContent
	}

	ttl := req.TTL
	if ttl == 0 {
		ttl = s.config.DefaultTTL
	}
	if ttl < s.config.MinTTL || ttl > s.config.MaxTTL {
		return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidTTL, ttl, s.config.MinTTL, s.config.MaxTTL)
	}

	const maxInsertRetries = 3
	for attempt := 0; attempt < maxInsertRetries; attempt++ {
		slug, err := s.GenerateSlug()
		if err != nil {
			return nil, err
		}

		now := s.timeNow().UTC()
		page := &models.Page{
			Slug:      slug,
			Content:   req.HTML,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
			Assets:    req.Assets,
		}
		if page.Assets == nil {
			page.Assets = []string{}
		}

		err = s.store.Insert(page)
		if errors.Is(err, storage.ErrDuplicateSlug) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store page: %w", err)
		}

		metrics.PagesCreated.Inc()
		return &CreatePageResponse{
			Slug:      slug,
			Path:      "/p/" + slug,
			ExpiresAt: page.ExpiresAt,
			TTL:       ttl,
		}, nil
	}

	return nil, fmt.Errorf("failed to insert page after %d slug collisions", maxInsertRetries)
}

// GetPage looks up a page and applies the lazy expiry check. Returns the
// page and its remaining TTL, or ErrNotFound / expiry.ErrExpired. When
// ErrExpired is returned the record and its assets are already gone.
func (s *PageService) GetPage(slug string) (*models.Page, time.Duration, error) {
	page, err := s.store.Get(slug)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to look up page: %w", err)
	}
	if page == nil {
		return nil, 0, ErrNotFound
	}

	remaining, err := s.engine.CheckAlive(page)
	if err != nil {
		return nil, 0, err
	}
	return page, remaining, nil
}

package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagebin/pagebin/config"
	"github.com/pagebin/pagebin/internal/expiry"
	"github.com/pagebin/pagebin/internal/services"
	"github.com/pagebin/pagebin/utils"
)

// PageHandler handles page create/read/render operations
type PageHandler struct {
	service *services.PageService
	config  *config.Config
}

// NewPageHandler creates a new page handler
func NewPageHandler(service *services.PageService, cfg *config.Config) *PageHandler {
	return &PageHandler{service: service, config: cfg}
}

// createPageRequest is the JSON body of POST /api/pages
type createPageRequest struct {
	HTML       string   `json:"html"`
	TTLSeconds *int     `json:"ttl_seconds"`
	Assets     []string `json:"assets"`
}

// Create handles POST /api/pages
func (h *PageHandler) Create(c *gin.Context) {
	var req createPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var ttl time.Duration
	if req.TTLSeconds != nil {
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	resp, err := h.service.CreatePage(services.CreatePageRequest{
		HTML:   req.HTML,
		TTL:    ttl,
		Assets: req.Assets,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) || errors.Is(err, services.ErrInvalidTTL) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ERROR] Create: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to create page")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":        resp.Slug,
		"url":         h.pageURL(c, resp.Slug),
		"expires_at":  resp.ExpiresAt.Format(time.RFC3339),
		"ttl_seconds": int(resp.TTL / time.Second),
	})
}

// Get handles GET /api/pages/:slug, returning the page as data
func (h *PageHandler) Get(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.IsValidSlug(slug) {
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	page, remaining, err := h.service.GetPage(slug)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(c, http.StatusNotFound, "not found")
		case errors.Is(err, expiry.ErrExpired):
			respondError(c, http.StatusGone, "expired")
		default:
			log.Printf("[ERROR] Get: lookup failed for slug %s: %v", slug, err)
			respondError(c, http.StatusInternalServerError, "failed to look up page")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":              page.Slug,
		"html":              page.Content,
		"expires_at":        page.ExpiresAt.Format(time.RFC3339),
		"remaining_seconds": int(remaining / time.Second),
		"assets":            page.Assets,
	})
}

// View handles GET /p/:slug, rendering the stored HTML verbatim inside a
// minimal wrapper with a countdown and copy-link affordance
func (h *PageHandler) View(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.IsValidSlug(slug) {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundHTML))
		return
	}

	page, remaining, err := h.service.GetPage(slug)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundHTML))
		case errors.Is(err, expiry.ErrExpired):
			c.Data(http.StatusGone, "text/html; charset=utf-8", []byte(expiredHTML))
		default:
			log.Printf("[ERROR] View: lookup failed for slug %s: %v", slug, err)
			c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(errorHTML))
		}
		return
	}

	body := renderPage(page.Content, int(remaining/time.Second))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// pageURL creates the full URL for a page, detecting HTTPS from proxy headers
func (h *PageHandler) pageURL(c *gin.Context, slug string) string {
	// If base URL is explicitly set, use it (takes precedence)
	if h.config.URL != "" {
		return fmt.Sprintf("%s/p/%s", strings.TrimRight(h.config.URL, "/"), slug)
	}

	scheme := "http"
	if isHTTPS(c) {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/p/%s", scheme, c.Request.Host, slug)
}

// isHTTPS detects if the original request was HTTPS, even behind proxies
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if scheme := c.GetHeader("X-Forwarded-Scheme"); scheme == "https" {
		return true
	}
	if c.GetHeader("X-Forwarded-Ssl") == "on" {
		return true
	}
	return false
}

// respondError sends a JSON error response
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

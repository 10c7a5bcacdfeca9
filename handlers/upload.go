package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pagebin/pagebin/config"
	"github.com/pagebin/pagebin/internal/mirror"
	"github.com/pagebin/pagebin/utils"
)

// UploadHandler handles asset ingestion: direct image uploads and mirroring
// of remote images into the upload directory
type UploadHandler struct {
	config  *config.Config
	fetcher *mirror.Fetcher
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(cfg *config.Config, fetcher *mirror.Fetcher) *UploadHandler {
	return &UploadHandler{config: cfg, fetcher: fetcher}
}

// Upload handles POST /api/upload (multipart, field "file", images only)
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no file provided")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !utils.IsImageType(contentType) {
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}
	if header.Size > h.config.MaxUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	filename := uuid.NewString() + utils.ImageExtension(contentType)
	path := filepath.Join(h.config.UploadDir, filename)

	out, err := os.Create(path)
	if err != nil {
		log.Printf("[ERROR] Upload: failed to create %s: %v", path, err)
		respondError(c, http.StatusInternalServerError, "failed to store upload")
		return
	}

	written, err := io.Copy(out, io.LimitReader(file, h.config.MaxUploadSize+1))
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(path)
		log.Printf("[ERROR] Upload: failed to write %s: copy=%v close=%v", path, err, closeErr)
		respondError(c, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if written > h.config.MaxUploadSize {
		_ = os.Remove(path)
		respondError(c, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + filename})
}

// Mirror handles GET /api/proxy-image?url=
func (h *UploadHandler) Mirror(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		respondError(c, http.StatusBadRequest, "missing url parameter")
		return
	}

	ref, err := h.fetcher.Fetch(rawURL)
	if err != nil {
		switch {
		case errors.Is(err, mirror.ErrBadURL):
			respondError(c, http.StatusBadRequest, "invalid url")
		case errors.Is(err, mirror.ErrNotImage):
			respondError(c, http.StatusBadRequest, "url is not an image")
		case errors.Is(err, mirror.ErrTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, "image too large")
		default:
			if utils.IsDebugEnabled() {
				log.Printf("[DEBUG] Mirror: fetch failed for %s: %v", rawURL, err)
			}
			respondError(c, http.StatusBadRequest, "could not fetch image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": ref})
}

// Package mirror downloads remote images into the local upload directory so
// pages can reference them as ordinary assets with the same end-of-life
// cleanup as direct uploads.
package mirror

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagebin/pagebin/utils"
)

var (
	// ErrBadURL signals a URL that is not plain http/https.
	ErrBadURL = errors.New("invalid image url")
	// ErrNotImage signals a response that is not an image.
	ErrNotImage = errors.New("url is not an image")
	// ErrTooLarge signals an image over the configured size cap.
	ErrTooLarge = errors.New("image too large")
	// ErrFetchFailed signals a network failure or non-200 response.
	ErrFetchFailed = errors.New("could not fetch image")
)

// Fetcher mirrors remote images into the upload directory.
type Fetcher struct {
	client    *http.Client
	uploadDir string
	maxBytes  int64
}

// NewFetcher creates a fetcher writing into uploadDir, rejecting images over
// maxBytes. The outbound request carries a bounded timeout.
func NewFetcher(uploadDir string, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 10 * time.Second},
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}
}

// Fetch downloads the image at rawURL into the upload directory under a
// random filename and returns its site-relative reference, e.g.
// "/uploads/3f2a….png".
func (f *Fetcher) Fetch(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", ErrBadURL
	}

	resp, err := f.client.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !utils.IsImageType(contentType) {
		return "", ErrNotImage
	}

	filename := uuid.NewString() + utils.ImageExtension(contentType)
	path := filepath.Join(f.uploadDir, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}

	// Copy one byte past the cap so an exactly-at-limit image passes and an
	// over-limit one is detected without downloading the rest.
	written, err := io.Copy(out, io.LimitReader(resp.Body, f.maxBytes+1))
	closeErr := out.Close()
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return "", closeErr
	}
	if written > f.maxBytes {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return "/uploads/" + filename, nil
}

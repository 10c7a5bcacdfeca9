package storage

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pagebin/pagebin/models"
)

// pageDoc is the on-disk layout of a page record. Content lives in the
// metadata document itself; the record's asset files are separate and owned
// by the upload directory.
type pageDoc struct {
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Assets    []string  `json:"assets"`
}

// FilesystemStore implements PageStore on the local filesystem, one JSON
// document per slug. Intended for single-node deployments and tests.
type FilesystemStore struct {
	dataDir string
	mu      sync.Mutex
}

// NewFilesystemStore creates a new filesystem storage backend
func NewFilesystemStore(dataDir string) (*FilesystemStore, error) {
	if dataDir == "" {
		dataDir = "./pages"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{dataDir: dataDir}, nil
}

func (fs *FilesystemStore) metaPath(slug string) string {
	return filepath.Join(fs.dataDir, slug+".json")
}

// Insert saves a page. O_EXCL makes the create fail if the slug is already
// present, matching the store-level duplicate contract.
func (fs *FilesystemStore) Insert(page *models.Page) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc := pageDoc{
		Slug:      page.Slug,
		Content:   page.Content,
		CreatedAt: page.CreatedAt,
		ExpiresAt: page.ExpiresAt,
		Assets:    page.Assets,
	}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(fs.metaPath(page.Slug), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrDuplicateSlug
		}
		log.Printf("[ERROR] FS Insert: failed to create metadata for %s: %v", page.Slug, err)
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		log.Printf("[ERROR] FS Insert: failed to write metadata for %s: %v", page.Slug, err)
		return err
	}
	return nil
}

// Get retrieves a page by its slug. Returns (nil, nil) when absent.
func (fs *FilesystemStore) Get(slug string) (*models.Page, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.readPage(slug)
}

func (fs *FilesystemStore) readPage(slug string) (*models.Page, error) {
	data, err := os.ReadFile(fs.metaPath(slug))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var doc pageDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("[ERROR] FS Get: failed to unmarshal metadata for %s: %v", slug, err)
		return nil, err
	}

	return &models.Page{
		Slug:      doc.Slug,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
		Assets:    doc.Assets,
	}, nil
}

// Exists checks if a page exists by its slug
func (fs *FilesystemStore) Exists(slug string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, err := os.Stat(fs.metaPath(slug))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes a page. Deleting an absent slug is a no-op.
func (fs *FilesystemStore) Delete(slug string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	err := os.Remove(fs.metaPath(slug))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FindExpired scans the data directory for pages with expires_at <= before
func (fs *FilesystemStore) FindExpired(before time.Time) ([]*models.Page, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		return nil, err
	}

	var pages []*models.Page
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".json")
		page, err := fs.readPage(slug)
		if err != nil || page == nil {
			// A record deleted between ReadDir and read is not an error.
			continue
		}
		if !before.Before(page.ExpiresAt) {
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// DeleteMany removes exactly the given slugs
func (fs *FilesystemStore) DeleteMany(slugs []string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, slug := range slugs {
		if err := os.Remove(fs.metaPath(slug)); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[WARN] FS DeleteMany: failed to delete %s: %v", slug, err)
		}
	}
	return nil
}

// Close closes the storage backend (nothing to release for local files)
func (fs *FilesystemStore) Close() error {
	return nil
}

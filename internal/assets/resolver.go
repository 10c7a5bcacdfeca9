// Package assets maps stored asset references to files on disk and removes
// them at page end-of-life.
//
// References come in two shapes: a site-relative URL like "/uploads/x.png"
// (what the upload and mirror endpoints hand back) or a bare filename. The
// resolver tries the reference relative to the work root first, then falls
// back to the basename under the upload directory.
package assets

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Resolver locates asset files referenced by page records.
type Resolver struct {
	workRoot  string
	uploadDir string
}

// NewResolver creates a resolver rooted at workRoot with the given upload
// directory. An empty workRoot means the process working directory.
func NewResolver(workRoot, uploadDir string) *Resolver {
	if workRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			workRoot = wd
		} else {
			workRoot = "."
		}
	}
	return &Resolver{workRoot: workRoot, uploadDir: uploadDir}
}

// Resolve maps a stored reference to an existing file path. The second
// return is false when no candidate exists; that is not an error.
func (r *Resolver) Resolve(ref string) (string, bool) {
	relative := strings.TrimLeft(ref, "/")
	if relative == "" {
		return "", false
	}

	path := filepath.Join(r.workRoot, relative)
	if isRegularFile(path) {
		return path, true
	}

	// Fall back to the bare filename under the upload dir
	path = filepath.Join(r.uploadDir, filepath.Base(relative))
	if isRegularFile(path) {
		return path, true
	}

	return "", false
}

// Remove deletes the file a reference resolves to and reports whether a file
// was actually deleted. A reference that resolves to nothing, or a file that
// vanished before the delete landed, counts as success: the lazy and eager
// expiry paths may race to remove the same asset. Callers are free to ignore
// both results.
func (r *Resolver) Remove(ref string) (bool, error) {
	path, ok := r.Resolve(ref)
	if !ok {
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		log.Printf("[WARN] asset cleanup: failed to remove %s: %v", path, err)
		return false, err
	}
	return true, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

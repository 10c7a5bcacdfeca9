package utils

import "strings"

// Extensions for the image types the upload and mirror endpoints accept.
// Unknown image subtypes are stored without an extension, matching how the
// files are served (by stored name, not by sniffing).
var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// IsImageType reports whether a MIME type denotes an image
func IsImageType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// ImageExtension returns the canonical file extension for an image MIME
// type, or "" when unknown
func ImageExtension(contentType string) string {
	if semi := strings.Index(contentType, ";"); semi >= 0 {
		contentType = strings.TrimSpace(contentType[:semi])
	}
	return imageExtensions[contentType]
}

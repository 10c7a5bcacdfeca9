package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphanumeric alphabet; 62 symbols at 8 characters is ~47.6 bits of
// entropy, so collisions against a store holding even millions of live pages
// are effectively never observed.
const slugCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultSlugLength is used when callers pass an out-of-range length.
const DefaultSlugLength = 8

// SecureRandomSlug generates a random slug of exactly the given length using
// crypto/rand. The slug is the sole access-control mechanism for a page, so
// a guessable source of randomness is not acceptable here.
func SecureRandomSlug(length int) (string, error) {
	if length < 4 || length > 32 {
		length = DefaultSlugLength
	}
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(slugCharset)))
	for i := range result {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		result[i] = slugCharset[idx.Int64()]
	}
	return string(result), nil
}

// IsValidSlug checks if a slug contains only valid characters
func IsValidSlug(slug string) bool {
	if len(slug) < 4 || len(slug) > 32 {
		return false
	}
	for _, char := range slug {
		if !strings.ContainsRune(slugCharset, char) {
			return false
		}
	}
	return true
}

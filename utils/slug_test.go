package utils

import (
	"testing"
)

func TestSecureRandomSlug(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int // expected length
	}{
		{
			name:   "default length",
			length: 8,
			want:   8,
		},
		{
			name:   "custom length",
			length: 12,
			want:   12,
		},
		{
			name:   "min valid length",
			length: 4,
			want:   4,
		},
		{
			name:   "max valid length",
			length: 32,
			want:   32,
		},
		{
			name:   "below min length defaults to 8",
			length: 3,
			want:   8,
		},
		{
			name:   "above max length defaults to 8",
			length: 33,
			want:   8,
		},
		{
			name:   "zero length defaults to 8",
			length: 0,
			want:   8,
		},
		{
			name:   "negative length defaults to 8",
			length: -1,
			want:   8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := SecureRandomSlug(tt.length)
			if err != nil {
				t.Errorf("SecureRandomSlug() error = %v", err)
				return
			}
			if len(slug) != tt.want {
				t.Errorf("SecureRandomSlug() length = %v, want %v", len(slug), tt.want)
			}

			// Verify slug contains only valid characters
			if !IsValidSlug(slug) {
				t.Errorf("SecureRandomSlug() generated invalid slug: %v", slug)
			}
		})
	}
}

func TestSecureRandomSlugUniqueness(t *testing.T) {
	// Rapid sequential generation must not repeat
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		slug, err := SecureRandomSlug(8)
		if err != nil {
			t.Fatalf("SecureRandomSlug() error = %v", err)
		}
		if seen[slug] {
			t.Fatalf("SecureRandomSlug() repeated slug %q after %d generations", slug, i)
		}
		seen[slug] = true
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want bool
	}{
		{
			name: "valid alphanumeric slug",
			slug: "aB3xY9Qz",
			want: true,
		},
		{
			name: "too short",
			slug: "ab1",
			want: false,
		},
		{
			name: "too long",
			slug: "abcdefghijklmnopqrstuvwxyz1234567",
			want: false,
		},
		{
			name: "contains hyphen",
			slug: "abc-1234",
			want: false,
		},
		{
			name: "contains slash",
			slug: "abc/1234",
			want: false,
		},
		{
			name: "empty",
			slug: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

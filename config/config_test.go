package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.DefaultTTL != 10*time.Minute {
		t.Errorf("DefaultTTL = %v, want 10m", cfg.DefaultTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v, want 1m", cfg.SweepInterval)
	}
	if cfg.SlugLength != 8 {
		t.Errorf("SlugLength = %d, want 8", cfg.SlugLength)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: true,
		},
		{
			name:    "slug too short",
			mutate:  func(c *Config) { c.SlugLength = 2 },
			wantErr: true,
		},
		{
			name:    "slug too long",
			mutate:  func(c *Config) { c.SlugLength = 64 },
			wantErr: true,
		},
		{
			name:    "zero min TTL",
			mutate:  func(c *Config) { c.MinTTL = 0 },
			wantErr: true,
		},
		{
			name:    "max TTL below min",
			mutate:  func(c *Config) { c.MaxTTL = c.MinTTL - time.Second },
			wantErr: true,
		},
		{
			name:    "default TTL outside bounds",
			mutate:  func(c *Config) { c.DefaultTTL = c.MaxTTL + time.Hour },
			wantErr: true,
		},
		{
			name:    "zero sweep interval",
			mutate:  func(c *Config) { c.SweepInterval = 0 },
			wantErr: true,
		},
		{
			name:    "upload size too small",
			mutate:  func(c *Config) { c.MaxUploadSize = 100 },
			wantErr: true,
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.StorageType = "cassandra" },
			wantErr: true,
		},
		{
			name:   "mongodb storage type",
			mutate: func(c *Config) { c.StorageType = "mongodb" },
		},
		{
			name:   "dynamodb storage type",
			mutate: func(c *Config) { c.StorageType = "dynamodb" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		port int
		want string
	}{
		{
			name: "explicit URL wins",
			url:  "https://pages.example.com",
			port: 8080,
			want: "https://pages.example.com",
		},
		{
			name: "default port omitted",
			port: 80,
			want: "http://localhost",
		},
		{
			name: "non-default port included",
			port: 8080,
			want: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.URL = tt.url
			cfg.Port = tt.port
			if got := cfg.GetBaseURL(); got != tt.want {
				t.Errorf("GetBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

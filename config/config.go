package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration options for the pagebin server
type Config struct {
	// Server configuration
	Port int
	URL  string

	// Storage configuration
	StorageType string // "filesystem", "mongodb", "dynamodb"
	DataDir     string
	UploadDir   string
	SlugLength  int

	// Database configuration
	MongoDBURI        string
	MongoDBDatabase   string
	MongoDBCollection string
	DynamoDBTable     string
	AWSRegion         string

	// Page lifecycle configuration
	DefaultTTL    time.Duration
	MinTTL        time.Duration
	MaxTTL        time.Duration
	SweepInterval time.Duration

	// Upload configuration
	MaxUploadSize int64

	// Feature flags
	EnableMetrics bool

	// Version/build info (set by main)
	Version    string
	BuildTime  string
	CommitHash string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Port:              8080,
		URL:               "",
		StorageType:       "filesystem",
		DataDir:           "./pages",
		UploadDir:         "./uploads",
		SlugLength:        8,
		MongoDBURI:        "mongodb://localhost:27017",
		MongoDBDatabase:   "pagebin",
		MongoDBCollection: "pages",
		DynamoDBTable:     "pagebin-pages",
		AWSRegion:         "us-east-1",
		DefaultTTL:        10 * time.Minute,
		MinTTL:            time.Minute,
		MaxTTL:            24 * time.Hour,
		SweepInterval:     time.Minute,
		MaxUploadSize:     8 * 1024 * 1024, // 8MB
		EnableMetrics:     true,
	}
}

// LoadFromFlags parses command-line flags and environment variables
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	flag.IntVar(&cfg.Port, "port", getEnvInt("PAGEBIN_PORT", cfg.Port), "HTTP port to listen on")
	flag.StringVar(&cfg.URL, "url", getEnvString("PAGEBIN_URL", cfg.URL), "Base URL for page links (defaults to request host)")

	// Storage configuration
	flag.StringVar(&cfg.StorageType, "storage-type", getEnvString("PAGEBIN_STORAGE_TYPE", cfg.StorageType), "Storage backend: filesystem, mongodb, dynamodb")
	flag.StringVar(&cfg.DataDir, "data-dir", getEnvString("PAGEBIN_DATA_DIR", cfg.DataDir), "Directory for page records (filesystem only)")
	flag.StringVar(&cfg.UploadDir, "upload-dir", getEnvString("PAGEBIN_UPLOAD_DIR", cfg.UploadDir), "Directory for uploaded asset files")
	flag.IntVar(&cfg.SlugLength, "slug-length", getEnvInt("PAGEBIN_SLUG_LENGTH", cfg.SlugLength), "Length of generated slug IDs")

	// Database configuration
	flag.StringVar(&cfg.MongoDBURI, "mongodb-uri", getEnvString("PAGEBIN_MONGODB_URI", cfg.MongoDBURI), "MongoDB connection URI")
	flag.StringVar(&cfg.MongoDBDatabase, "mongodb-database", getEnvString("PAGEBIN_MONGODB_DATABASE", cfg.MongoDBDatabase), "MongoDB database name")
	flag.StringVar(&cfg.MongoDBCollection, "mongodb-collection", getEnvString("PAGEBIN_MONGODB_COLLECTION", cfg.MongoDBCollection), "MongoDB collection name")
	flag.StringVar(&cfg.DynamoDBTable, "dynamodb-table", getEnvString("PAGEBIN_DYNAMODB_TABLE", cfg.DynamoDBTable), "DynamoDB table name")
	flag.StringVar(&cfg.AWSRegion, "aws-region", getEnvString("PAGEBIN_AWS_REGION", cfg.AWSRegion), "AWS region for DynamoDB")

	// Lifecycle configuration
	flag.DurationVar(&cfg.DefaultTTL, "default-ttl", getEnvDuration("PAGEBIN_DEFAULT_TTL", cfg.DefaultTTL), "Default page TTL")
	flag.DurationVar(&cfg.MinTTL, "min-ttl", getEnvDuration("PAGEBIN_MIN_TTL", cfg.MinTTL), "Minimum accepted page TTL")
	flag.DurationVar(&cfg.MaxTTL, "max-ttl", getEnvDuration("PAGEBIN_MAX_TTL", cfg.MaxTTL), "Maximum accepted page TTL")
	flag.DurationVar(&cfg.SweepInterval, "sweep-interval", getEnvDuration("PAGEBIN_SWEEP_INTERVAL", cfg.SweepInterval), "Interval between expiry sweep cycles")

	var maxUploadMB int
	flag.IntVar(&maxUploadMB, "max-upload-mb", int(cfg.MaxUploadSize/(1024*1024)), "Maximum upload/mirror size in MB")

	flag.BoolVar(&cfg.EnableMetrics, "enable-metrics", getEnvBool("PAGEBIN_ENABLE_METRICS", cfg.EnableMetrics), "Enable Prometheus metrics endpoint")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pagebin - ephemeral HTML page host\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  All flags can be set via environment variables with PAGEBIN_ prefix\n")
		fmt.Fprintf(os.Stderr, "  Example: PAGEBIN_STORAGE_TYPE=mongodb\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  # Start with default settings\n")
		fmt.Fprintf(os.Stderr, "  %s\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # MongoDB backend\n")
		fmt.Fprintf(os.Stderr, "  %s -storage-type mongodb -mongodb-uri mongodb://localhost:27017\n\n", os.Args[0])
	}

	flag.Parse()

	if maxUploadMB > 0 {
		cfg.MaxUploadSize = int64(maxUploadMB) * 1024 * 1024
	}

	return cfg, cfg.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.SlugLength < 4 || c.SlugLength > 32 {
		return fmt.Errorf("slug length must be between 4 and 32: %d", c.SlugLength)
	}

	if c.MinTTL <= 0 {
		return fmt.Errorf("min TTL must be positive: %v", c.MinTTL)
	}

	if c.MaxTTL < c.MinTTL {
		return fmt.Errorf("max TTL %v is below min TTL %v", c.MaxTTL, c.MinTTL)
	}

	if c.DefaultTTL < c.MinTTL || c.DefaultTTL > c.MaxTTL {
		return fmt.Errorf("default TTL %v is outside [%v, %v]", c.DefaultTTL, c.MinTTL, c.MaxTTL)
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive: %v", c.SweepInterval)
	}

	if c.MaxUploadSize < 1024 || c.MaxUploadSize > 100*1024*1024 {
		return fmt.Errorf("max upload size must be between 1KB and 100MB: %d", c.MaxUploadSize)
	}

	validStorageTypes := []string{"filesystem", "mongodb", "dynamodb"}
	validType := false
	for _, st := range validStorageTypes {
		if c.StorageType == st {
			validType = true
			break
		}
	}
	if !validType {
		return fmt.Errorf("invalid storage type: %s (valid: filesystem, mongodb, dynamodb)", c.StorageType)
	}

	return nil
}

// GetBaseURL returns the base URL for page links
// Note: HTTPS/TLS should be handled by reverse proxy (nginx, HAProxy, etc.)
func (c *Config) GetBaseURL() string {
	if c.URL != "" {
		return c.URL
	}

	if c.Port == 80 {
		return "http://localhost"
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/jamescw/unicef-assessment-tool/internal/errors"
)

// Combine policies for issues that only have one scope answered
const (
	CombinePolicySkip = "skip"
	CombinePolicyZero = "zero"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string

	// Reference data
	CatalogPath       string
	CatalogSheet      string
	CatalogSkipRows   int
	CountryIndexPath  string
	CountryIndexSheet string

	// Scoring
	CombinePolicy string

	// Persistence and auth
	DatabaseURL string
	JWTSecret   string

	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	env := getEnv("ENV", "development")
	defaultFormat := "json"
	if env == "development" {
		defaultFormat = "console"
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", defaultFormat),

		CatalogPath:       getEnv("CATALOG_PATH", "data/framework.xlsx"),
		CatalogSheet:      getEnv("CATALOG_SHEET", "All"),
		CatalogSkipRows:   getEnvAsInt("CATALOG_SKIP_ROWS", 2),
		CountryIndexPath:  getEnv("COUNTRY_INDEX_PATH", "data/country_index.csv"),
		CountryIndexSheet: getEnv("COUNTRY_INDEX_SHEET", ""),

		CombinePolicy: strings.ToLower(getEnv("COMBINE_POLICY", CombinePolicySkip)),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit: getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:  getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024), // 10MB default
	}
}

// Validate checks settings that would otherwise fail later at runtime
func (c *Config) Validate() error {
	switch c.CombinePolicy {
	case CombinePolicySkip, CombinePolicyZero:
	default:
		return apperrors.Configuration(fmt.Sprintf("unknown COMBINE_POLICY %q (want %q or %q)", c.CombinePolicy, CombinePolicySkip, CombinePolicyZero), nil)
	}
	if c.CatalogPath == "" {
		return apperrors.Configuration("CATALOG_PATH is required", nil)
	}
	if c.CatalogSkipRows < 0 {
		return apperrors.Configuration("CATALOG_SKIP_ROWS must not be negative", nil)
	}
	if c.MaxRequestSize <= 0 {
		return apperrors.Configuration("MAX_REQUEST_SIZE must be positive", nil)
	}
	if c.HasDatabase() && c.JWTSecret == "" {
		return apperrors.Configuration("JWT_SECRET is required when DATABASE_URL is set", nil)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether submissions and users are persisted in Postgres
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{}
	}
	origins := strings.Split(c.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return nil
	}
	return strings.Split(c.TrustedProxies, ",")
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
)

// DefaultFXFallbackRate is the last-resort rate used when no quote can be fetched.
const DefaultFXFallbackRate = 31.0

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Portfolio PortfolioConfig
	Log       LogConfig
	Cache     CacheConfig
	FX        FXConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// PortfolioConfig locates the portfolio file and the documents it refers to.
type PortfolioConfig struct {
	File    string
	DataDir string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds the per-kind cache TTLs.
type CacheConfig struct {
	HoldingsTTL time.Duration
	FXTTL       time.Duration
}

// FXConfig holds FX provider settings.
type FXConfig struct {
	FallbackRate float64
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	holdingsTTL, err := getEnvDuration("CACHE_HOLDINGS_TTL", cache.DefaultHoldingsTTL)
	if err != nil {
		return nil, err
	}
	fxTTL, err := getEnvDuration("CACHE_FX_TTL", cache.DefaultFXTTL)
	if err != nil {
		return nil, err
	}
	fallback, err := getEnvFloat("FX_FALLBACK_RATE", DefaultFXFallbackRate)
	if err != nil {
		return nil, err
	}
	if fallback <= 0 {
		return nil, fmt.Errorf("FX_FALLBACK_RATE must be positive, got %v", fallback)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Portfolio: PortfolioConfig{
			File:    getEnv("PORTFOLIO_FILE", "./data/portfolio.yaml"),
			DataDir: getEnv("DATA_DIR", "./data"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
		},
		Cache: CacheConfig{
			HoldingsTTL: holdingsTTL,
			FXTTL:       fxTTL,
		},
		FX: FXConfig{
			FallbackRate: fallback,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, value)
	}
	return d, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

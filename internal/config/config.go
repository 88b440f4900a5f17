package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	// View refresh behaviour
	PollInterval         time.Duration
	SessionCheckInterval time.Duration

	// Session persistence
	SessionStore  string // "file" or "redis"
	SessionFile   string
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Local file output for exports and reports
	ExportDir string

	// Widget preview server
	PreviewAddr string
	CORSOrigins []string

	// Client-side throttling of outgoing API calls
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel     string
	OTELEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		APIBaseURL:     getEnv("API_BASE_URL", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		UploadTimeout:  getEnvDuration("UPLOAD_TIMEOUT", 30*time.Second),

		PollInterval:         getEnvDuration("POLL_INTERVAL", 30*time.Second),
		SessionCheckInterval: getEnvDuration("SESSION_CHECK_INTERVAL", 60*time.Second),

		SessionStore:  getEnv("SESSION_STORE", "file"),
		SessionFile:   getEnv("SESSION_FILE", defaultSessionFile()),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ExportDir: getEnv("EXPORT_DIR", "."),

		PreviewAddr: getEnv("PREVIEW_ADDR", "127.0.0.1:7788"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		RateLimitRPS:   getEnvFloat64("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		OTELEndpoint: getEnv("OTEL_ENDPOINT", ""),
	}

	// Validate required fields
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required - set it in .env file")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.SessionStore != "file" && cfg.SessionStore != "redis" {
		return nil, fmt.Errorf("SESSION_STORE must be \"file\" or \"redis\", got %q", cfg.SessionStore)
	}

	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".admin-console-session.json"
	}
	return home + "/.admin-console-session.json"
}

func getEnv(key, defaultValue string) string {
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

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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

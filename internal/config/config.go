// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the MCP server.
type Config struct {
	AnswerEndpoint    string        // ANSWER_ENDPOINT, default "http://localhost/api-example.php"
	AnswersExpr       string        // ANSWERS_EXPR, default "" (response body is the answer array)
	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 10000ms (10s)
	FillDelay         time.Duration // FILL_DELAY_MS, default 500ms
	ScaleFallback     int           // SCALE_FALLBACK, default 3; 0 disables guessing
	VerifyFill        bool          // VERIFY_FILL, default true
	FetchWorkers      int           // FETCH_WORKERS, default 4
	SelectorCacheSize int           // SELECTOR_CACHE_SIZE, default 128
	PageCacheMaxItems int           // PAGE_CACHE_MAX_ITEMS, default 32
	PageCacheTTL      time.Duration // PAGE_CACHE_TTL_MS, default 5000ms; 0 disables the page cache

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogFormat     string // LOG_FORMAT, default "text"
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		AnswerEndpoint:    getEnvString("ANSWER_ENDPOINT", "http://localhost/api-example.php"),
		AnswersExpr:       getEnvString("ANSWERS_EXPR", ""),
		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 10000),
		FillDelay:         getEnvDurationMs("FILL_DELAY_MS", 500),
		ScaleFallback:     getEnvInt("SCALE_FALLBACK", 3),
		VerifyFill:        getEnvBool("VERIFY_FILL", true),
		FetchWorkers:      getEnvInt("FETCH_WORKERS", 4),
		SelectorCacheSize: getEnvInt("SELECTOR_CACHE_SIZE", 128),
		PageCacheMaxItems: getEnvInt("PAGE_CACHE_MAX_ITEMS", 32),
		PageCacheTTL:      getEnvDurationMs("PAGE_CACHE_TTL_MS", 5000),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}

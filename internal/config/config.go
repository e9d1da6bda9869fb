// Package config loads service configuration from the environment.
//
// A .env file in the working directory is picked up automatically via
// godotenv; real environment variables win over it.
package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port        int
	UploadDir   string
	MaxUploadMB int64

	Humand Humand
	Redash Redash
}

// Humand holds the HR platform client settings.
type Humand struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Redash holds the folder-query settings.
type Redash struct {
	BaseURL        string
	QueryAPIKey    string
	FoldersQueryID string
	Timeout        time.Duration
	RefreshWait    time.Duration
}

func Load() Config {
	return Config{
		Port:        envInt("PORT", 8080),
		UploadDir:   envStr("UPLOAD_DIR", "uploads"),
		MaxUploadMB: int64(envInt("MAX_FILE_SIZE_MB", 50)),
		Humand: Humand{
			BaseURL:      envStr("HUMAND_API_BASE_URL", "https://api-prod.humand.co/public/api/v1"),
			Token:        os.Getenv("HUMAND_API_TOKEN"),
			Timeout:      envMillis("API_TIMEOUT", 30000),
			MaxRetries:   envInt("API_MAX_RETRIES", 3),
			RetryDelay:   envMillis("API_RETRY_DELAY", 1000),
			CacheEnabled: os.Getenv("CACHE_ENABLED") != "false",
			CacheTTL:     time.Duration(envInt("CACHE_TTL", 1800)) * time.Second,
		},
		Redash: Redash{
			BaseURL:        envStr("REDASH_API_BASE_URL", "https://redash.humand.co"),
			QueryAPIKey:    os.Getenv("REDASH_QUERY_API_KEY"),
			FoldersQueryID: envStr("REDASH_FOLDERS_QUERY_ID", "17520"),
			Timeout:        envMillis("REDASH_TIMEOUT", 30000),
			RefreshWait:    envMillis("REDASH_REFRESH_WAIT_TIME", 2000),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

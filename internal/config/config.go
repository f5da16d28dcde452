package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string
	DataDir     string

	// Redis (optional; empty disables the word cache)
	RedisURL string

	// Uploads
	MaxUploadBytes   int64
	UploadTimeoutSec int
	TokenizerWorkers int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		DatabaseURL:      getEnvOrDefault("DATABASE_URL", ""),
		DataDir:          getEnvOrDefault("DATA_DIR", "./data"),
		RedisURL:         getEnvOrDefault("REDIS_URL", ""),
		MaxUploadBytes:   int64(getEnvAsIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		UploadTimeoutSec: getEnvAsIntOrDefault("UPLOAD_TIMEOUT_SECONDS", 60),
		TokenizerWorkers: getEnvAsIntOrDefault("TOKENIZER_WORKERS", 4),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	LogLevel       string
	ListenAddr     string
	MaxFieldLength int
	Concurrency    int

	UserAgent     string
	FetchTimeout  time.Duration
	FetchRate     float64
	FetchBurst    int
	FetchMaxBytes int64
}

// Load reads the process environment after applying any .env file found in
// the working directory. An empty DatabaseURL selects the in-memory store.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		ListenAddr:     GetEnv("LISTEN_ADDR", ":8080"),
		MaxFieldLength: GetEnvInt("MAX_FIELD_LENGTH", 64<<10),
		Concurrency:    GetEnvInt("CONCURRENCY", 10),
		UserAgent:      GetEnv("USER_AGENT", "crawlextract/1.0"),
		FetchTimeout:   GetEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		FetchRate:      GetEnvFloat("FETCH_RATE", 10),
		FetchBurst:     GetEnvInt("FETCH_BURST", 20),
		FetchMaxBytes:  int64(GetEnvInt("FETCH_MAX_BYTES", 5*1024*1024)),
	}
}

func GetEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func GetEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func GetEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

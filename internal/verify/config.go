package verify

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven settings for the verification service.
// The scoring weights and lookup tables are deliberately not configurable;
// they are fixed, immutable tables.
type Config struct {
	ListenAddr      string
	Version         string
	Tolerance       float64
	PassThreshold   int
	ReviewThreshold int
	MaxUploadBytes  int64
	RateLimit       int
	RateWindow      time.Duration
	DuplicateDBPath string
}

func LoadConfig() Config {
	return Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		Version:         getenv("SERVICE_VERSION", "0.1.0"),
		Tolerance:       getFloat("AMOUNT_TOLERANCE", 0.05),
		PassThreshold:   getInt("PASS_THRESHOLD", 80),
		ReviewThreshold: getInt("REVIEW_THRESHOLD", 60),
		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", 10<<20),
		RateLimit:       getInt("RATE_LIMIT_PER_WINDOW", 60),
		RateWindow:      getDuration("RATE_LIMIT_WINDOW", time.Minute),
		DuplicateDBPath: getenv("DUPLICATE_DB_PATH", ""),
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

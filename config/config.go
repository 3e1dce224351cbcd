package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	ServerPort  string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string

	// Face extractor sidecar. Empty means clients must submit
	// precomputed embeddings.
	ExtractorURL string

	// Admission policy knobs.
	MatchThreshold    float64
	MinConfidence     float64
	VerifyTimeout     time.Duration
	RateLimitAttempts int
	RateLimitWindow   time.Duration
	LectureStartHour  int // -1 = unrestricted
	LectureEndHour    int
}

func Load() (*Config, error) {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		ServerPort:   getEnv("PORT", "8080"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnvInt("DB_PORT", 5432),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "attendx"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		ExtractorURL: getEnv("EXTRACTOR_URL", ""),

		MatchThreshold:    getEnvFloat("MATCH_THRESHOLD", 0.55),
		MinConfidence:     getEnvFloat("MIN_CONFIDENCE", 72.0),
		VerifyTimeout:     time.Duration(getEnvInt("VERIFY_TIMEOUT_MS", 2000)) * time.Millisecond,
		RateLimitAttempts: getEnvInt("RATE_LIMIT_ATTEMPTS", 3),
		RateLimitWindow:   time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,
		LectureStartHour:  getEnvInt("LECTURE_START_HOUR", -1),
		LectureEndHour:    getEnvInt("LECTURE_END_HOUR", -1),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

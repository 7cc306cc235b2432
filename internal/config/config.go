package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr            string
	BackendURL          string
	BackendTimeout      time.Duration
	JWTIssuer           string
	JWTPublicKey        string
	JWKSURL             string
	JWKSRefreshInterval time.Duration
	MarkerStore         string
	MarkerTTL           time.Duration
	RedisAddr           string
	RedisPassword       string
	DatabaseURL         string
	LinkFailureBlocks   bool
}

func Load() Config {
	return Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8084"),
		BackendURL:          getenv("BACKEND_URL", "http://127.0.0.1:8080"),
		BackendTimeout:      getenvDuration("BACKEND_TIMEOUT", 10*time.Second),
		JWTIssuer:           getenv("JWT_ISSUER", ""),
		JWTPublicKey:        getenv("JWT_PUBLIC_KEY", ""),
		JWKSURL:             getenv("JWKS_URL", ""),
		JWKSRefreshInterval: getenvDuration("JWKS_REFRESH_INTERVAL", time.Hour),
		MarkerStore:         getenv("MARKER_STORE", "memory"),
		MarkerTTL:           getenvDuration("MARKER_TTL", 12*time.Hour),
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		DatabaseURL:         getenv("DATABASE_URL", ""),
		LinkFailureBlocks:   getenvBool("LINK_FAILURE_BLOCKS", false),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

package config

import (
	"os"
	"time"
)

// Config параметры сервиса; читаются из окружения с дефолтами
type Config struct {
	HTTPAddr    string
	PostgresDSN string
	RedisAddr   string
	AuthSecret  string
	TokenTTL    time.Duration
	ServiceName string
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":9091"),
		PostgresDSN: getenv("POSTGRES_DSN", ""),
		RedisAddr:   getenv("REDIS_ADDR", ""),
		AuthSecret:  getenv("AUTH_SECRET", "dev-secret-change-me"),
		TokenTTL:    getdur("TOKEN_TTL", 24*time.Hour),
		ServiceName: getenv("SERVICE_NAME", "campus-api"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DatabasePath string
	LogLevel     string
	SessionTTL   string // Go duration string, e.g. "720h"
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:         getEnv("ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "liftdesk.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SessionTTL:   getEnv("SESSION_TTL", "720h"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

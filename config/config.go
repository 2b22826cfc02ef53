package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all deployment-time settings. Everything comes from the
// environment, with a .env file as a convenience for local development.
type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// BaseURL is used to build short links. When empty, handlers fall back
	// to the Host header of the incoming request.
	BaseURL string

	Port      string
	AppEnv    string
	StaticDir string

	// RedisAddr enables the redirect cache when set.
	RedisAddr     string
	RedisPassword string

	// SentryDSN enables error reporting when set.
	SentryDSN string
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if .env not found (e.g. prod)

	return &Config{
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "urlshortener"),
		DBPort:        getEnv("DB_PORT", "5432"),
		BaseURL:       getEnv("BASE_URL", ""),
		Port:          getEnv("PORT", "3000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		StaticDir:     getEnv("STATIC_DIR", "static"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SentryDSN:     getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port          string
	AllowOrigins  string
	StorageDriver string // memory, postgres
	JWTSecret     string
	TokenTTLHours int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigins:  getenv("ALLOW_ORIGINS", "*"),
		StorageDriver: getenv("STORAGE_DRIVER", "memory"),
		JWTSecret:     getenv("JWT_SECRET", "family-ledger-dev-secret"),
		TokenTTLHours: atoi("TOKEN_TTL_HOURS", 24),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "family_ledger"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
	}
}

// DSN builds the Postgres connection string from the DB_* variables.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

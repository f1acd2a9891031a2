package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	VerifyToken     string
	DBDriver        string // "postgres" or "sqlite"
	DBPath          string // sqlite only
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	GraphAPIBaseURL string
	GraphTimeout    time.Duration
	DedupTTL        time.Duration
}

// Load reads configuration from the environment (.env supported). Required
// values have no fallback: a missing VERIFY_TOKEN is an error so the service
// refuses to start rather than accepting traffic with an insecure default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBPath:          getEnv("DB_PATH", "./autodm.db"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "autodm"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		GraphAPIBaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v19.0"),
		GraphTimeout:    time.Duration(getEnvInt("GRAPH_TIMEOUT_SECONDS", 10)) * time.Second,
		DedupTTL:        time.Duration(getEnvInt("DEDUP_TTL_MINUTES", 15)) * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every value the webhook path depends on is present.
func (c *Config) Validate() error {
	if c.VerifyToken == "" {
		return fmt.Errorf("config: VERIFY_TOKEN is required")
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.GraphAPIBaseURL == "" {
		return fmt.Errorf("config: GRAPH_API_BASE_URL must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

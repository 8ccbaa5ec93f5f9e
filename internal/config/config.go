// Package config loads splitledger settings from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	Store       string
	DBPath      string
	Port        int
	LogLevel    string
	LogFormat   string
	EventBuffer int
}

// Load reads configuration from the environment.
// It loads .env from the current directory when present; an explicit envPath must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	port, err := parseIntEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	buffer, err := parseIntEnv("SPLITLEDGER_EVENT_BUFFER", 100)
	if err != nil {
		return nil, err
	}

	return &Config{
		Store:       strings.ToLower(getEnvOrDefault("SPLITLEDGER_STORE", StoreSQLite)),
		DBPath:      getEnvOrDefault("SPLITLEDGER_DB_PATH", "./data/splitledger.db"),
		Port:        port,
		LogLevel:    strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		EventBuffer: buffer,
	}, nil
}

// Validate reports every unsupported setting at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Store {
	case StoreSQLite, StoreBolt, StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("SPLITLEDGER_STORE=%q (want sqlite, bolt or memory)", c.Store))
	}
	if c.Store != StoreMemory && c.DBPath == "" {
		problems = append(problems, "SPLITLEDGER_DB_PATH is empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT=%d out of range", c.Port))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL=%q (want debug, info, warn or error)", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT=%q (want text or json)", c.LogFormat))
	}
	if c.EventBuffer <= 0 {
		problems = append(problems, fmt.Sprintf("SPLITLEDGER_EVENT_BUFFER=%d must be positive", c.EventBuffer))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr returns the listen address for the server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

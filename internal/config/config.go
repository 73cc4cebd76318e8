package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings holds process-level configuration, read from the environment
type Settings struct {
	InputDir     string
	OutputDir    string
	ConfigDir    string
	DatabasePath string // empty disables run-history persistence
	LogLevel     string
	PushSeed     int64 // 0 means time-seeded template shuffling
	Workers      int   // fan-out width for per-client offer computation
}

// Load reads settings from environment variables
func Load() (*Settings, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	s := &Settings{
		InputDir:     getEnv("INPUT_DIR", "data_input"),
		OutputDir:    getEnv("OUTPUT_DIR", "data_output"),
		ConfigDir:    getEnv("CONFIG_DIR", "config"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/runs.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		PushSeed:     getEnvAsInt64("PUSH_SEED", 0),
		Workers:      getEnvAsInt("WORKERS", 4),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if required configuration is present
func (s *Settings) Validate() error {
	if s.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}
	if s.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

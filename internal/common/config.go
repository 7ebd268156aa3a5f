package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Export   ExportConfig
	CTrac    CTracConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// ExportConfig holds summary-export configuration
type ExportConfig struct {
	ExcelDir         string
	FilenameTemplate string
}

// CTracConfig holds C-Trac API configuration; the settings table
// overrides these when populated.
type CTracConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        getEnv("TORQUEBENCH_DB", "torquebench.db"),
			BusyTimeout: getEnvAsDuration("TORQUEBENCH_DB_BUSY_TIMEOUT", 5*time.Second),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Export: ExportConfig{
			ExcelDir:         getEnv("TORQUEBENCH_EXPORT_DIR", "."),
			FilenameTemplate: getEnv("TORQUEBENCH_EXPORT_TEMPLATE", "summary_{{CustomerCompany}}_{{CalibrationDate}}.xlsx"),
		},
		CTrac: CTracConfig{
			BaseURL:  getEnv("CTRAC_APP_URL", "https://dev.c-trac.app"),
			APIToken: getEnv("CTRAC_API_TOKEN", ""),
			Timeout:  getEnvAsDuration("CTRAC_TIMEOUT", 15*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return NewAppError("CONFIG_ERROR", "TORQUEBENCH_DB is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}

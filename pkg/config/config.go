// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	// Relational sink
	Postgres *PostgresConfig

	// Source files
	DataDir       string
	CustomersFile string
	ProductsFile  string
	SalesFile     string

	// Report output
	ReportPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Default values
		DataDir:       getEnv("DATA_DIR", "data"),
		CustomersFile: getEnv("CUSTOMERS_FILE", "customers_raw.csv"),
		ProductsFile:  getEnv("PRODUCTS_FILE", "products_raw.csv"),
		SalesFile:     getEnv("SALES_FILE", "sales_raw.csv"),
		ReportPath:    getEnv("REPORT_PATH", "data_quality_report.txt"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
	}

	pgConfig, err := LoadPostgresConfig()
	if err != nil {
		return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
	}
	cfg.Postgres = pgConfig

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Postgres == nil {
		return errors.New("postgreSQL configuration is required")
	}

	if c.DataDir == "" {
		return errors.New("data directory is required")
	}

	if c.ReportPath == "" {
		return errors.New("report path is required")
	}

	return nil
}

// CustomersPath returns the full path to the customers source file
func (c *Config) CustomersPath() string {
	return filepath.Join(c.DataDir, c.CustomersFile)
}

// ProductsPath returns the full path to the products source file
func (c *Config) ProductsPath() string {
	return filepath.Join(c.DataDir, c.ProductsFile)
}

// SalesPath returns the full path to the sales source file
func (c *Config) SalesPath() string {
	return filepath.Join(c.DataDir, c.SalesFile)
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

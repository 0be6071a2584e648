// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Source kinds the pipeline can ingest from.
const (
	SourceCSV       = "csv"
	SourcePostgres  = "postgres"
	SourceSnowflake = "snowflake"
)

// Config represents the application configuration
type Config struct {
	// Where the raw batches come from
	Source    string
	CSV       CSVConfig
	Postgres  *PostgresConfig
	Snowflake *SnowflakeConfig

	// Correction audit sink (optional)
	AuditEnabled  bool
	AuditPostgres *PostgresConfig

	// Expectation suite rules file (optional, defaults built in)
	RulesPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// CSVConfig holds the file paths for CSV ingestion.
type CSVConfig struct {
	CustomersPath string
	ProductsPath  string
	SalesPath     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Source: getEnv("SOURCE_KIND", SourceCSV),
		CSV: CSVConfig{
			CustomersPath: getEnv("CSV_CUSTOMERS_PATH", "data/customers.csv"),
			ProductsPath:  getEnv("CSV_PRODUCTS_PATH", "data/products.csv"),
			SalesPath:     getEnv("CSV_SALES_PATH", "data/sales.csv"),
		},
		AuditEnabled: getEnvAsBool("AUDIT_ENABLED", false),
		RulesPath:    getEnv("RULES_PATH", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}

	// Database configurations are only required by the source kinds and
	// sinks that use them.
	if cfg.Source == SourcePostgres || cfg.AuditEnabled {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgConfig
		if cfg.AuditEnabled {
			cfg.AuditPostgres = pgConfig
		}
	}

	if cfg.Source == SourceSnowflake {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
		}
		cfg.Snowflake = snowConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourceCSV:
		if c.CSV.CustomersPath == "" || c.CSV.ProductsPath == "" || c.CSV.SalesPath == "" {
			return errors.New("all three CSV paths are required for the csv source")
		}
	case SourcePostgres:
		if c.Postgres == nil {
			return errors.New("postgreSQL configuration is required for the postgres source")
		}
	case SourceSnowflake:
		if c.Snowflake == nil {
			return errors.New("snowflake configuration is required for the snowflake source")
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source)
	}

	if c.AuditEnabled && c.AuditPostgres == nil {
		return errors.New("postgreSQL configuration is required when audit is enabled")
	}

	return nil
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

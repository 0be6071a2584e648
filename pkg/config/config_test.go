package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Should default to the csv source with built-in paths", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, SourceCSV, cfg.Source)
		assert.Equal(t, "data/customers.csv", cfg.CSV.CustomersPath)
		assert.Equal(t, "data/products.csv", cfg.CSV.ProductsPath)
		assert.Equal(t, "data/sales.csv", cfg.CSV.SalesPath)
		assert.False(t, cfg.AuditEnabled)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("Should read overrides from the environment", func(t *testing.T) {
		t.Setenv("CSV_CUSTOMERS_PATH", "/tmp/c.csv")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("RULES_PATH", "/etc/rules.yaml")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "/tmp/c.csv", cfg.CSV.CustomersPath)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "/etc/rules.yaml", cfg.RulesPath)
	})

	t.Run("Should require postgres settings for the postgres source", func(t *testing.T) {
		t.Setenv("SOURCE_KIND", SourcePostgres)

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "PostgreSQL configuration")
	})

	t.Run("Should load postgres settings when audit is enabled", func(t *testing.T) {
		t.Setenv("AUDIT_ENABLED", "true")
		t.Setenv("POSTGRES_USER", "quality")
		t.Setenv("POSTGRES_PASSWORD", "secret")
		t.Setenv("POSTGRES_DB", "techcommerce")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		require.NotNil(t, cfg.AuditPostgres)
		assert.Equal(t, "quality", cfg.AuditPostgres.User)
		assert.Equal(t, 5432, cfg.AuditPostgres.Port)
	})

	t.Run("Should require snowflake settings for the snowflake source", func(t *testing.T) {
		t.Setenv("SOURCE_KIND", SourceSnowflake)

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "Snowflake configuration")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Should reject an unknown source kind", func(t *testing.T) {
		cfg := &Config{Source: "ftp"}
		assert.ErrorContains(t, cfg.Validate(), "unknown source kind")
	})

	t.Run("Should require all three paths for the csv source", func(t *testing.T) {
		cfg := &Config{Source: SourceCSV, CSV: CSVConfig{CustomersPath: "a.csv"}}
		assert.Error(t, cfg.Validate())
	})
}

func TestPostgresConfig_ConnectionString(t *testing.T) {
	t.Run("Should format a keyword connection string", func(t *testing.T) {
		cfg := &PostgresConfig{
			Host: "db.local", Port: 5433, User: "u", Password: "p",
			Database: "d", SSLMode: "require",
		}

		assert.Equal(t,
			"host=db.local port=5433 user=u password=p dbname=d sslmode=require",
			cfg.ConnectionString())
	})
}

func TestLoadSnowflakeConfig(t *testing.T) {
	t.Run("Should apply database and schema defaults", func(t *testing.T) {
		t.Setenv("SNOWFLAKE_USER", "u")
		t.Setenv("SNOWFLAKE_PASSWORD", "p")
		t.Setenv("SNOWFLAKE_ACCOUNT", "acct")
		t.Setenv("SNOWFLAKE_WAREHOUSE", "wh")

		cfg, err := LoadSnowflakeConfig()
		require.NoError(t, err)

		assert.Equal(t, "TECHCOMMERCE", cfg.Database)
		assert.Equal(t, "RAW", cfg.Schema)
	})

	t.Run("Should fail without the required variables", func(t *testing.T) {
		_, err := LoadSnowflakeConfig()
		assert.Error(t, err)
	})
}

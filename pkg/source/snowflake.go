// pkg/source/snowflake.go
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/config"
	"github.com/techcommerce/data-quality/pkg/model"
)

// SnowflakeSource loads the raw batches from a Snowflake warehouse.
type SnowflakeSource struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.SnowflakeConfig
}

// NewSnowflakeSource creates and initializes a Snowflake source.
func NewSnowflakeSource(ctx context.Context, cfg *config.SnowflakeConfig, logger *zap.Logger) (*SnowflakeSource, error) {
	if cfg == nil {
		return nil, errors.New("snowflake configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	// Log connection attempt (without credentials)
	logger.Info("Connecting to Snowflake",
		zap.String("account", cfg.Account),
		zap.String("user", cfg.User),
		zap.String("database", cfg.Database),
		zap.String("warehouse", cfg.Warehouse),
		zap.String("role", cfg.Role))

	dsn, err := cfg.ConnectionString()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Snowflake connection: %w", err)
	}

	ApplyConnectionSettings(
		db.DB,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if cfg.QueryTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("ALTER SESSION SET STATEMENT_TIMEOUT_IN_SECONDS = %d",
				int(cfg.QueryTimeout.Seconds())),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	if err := PingWithTimeout(ctx, db.DB, 10*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	LogConnectionStats(logger, cfg.Database, db.DB)

	return &SnowflakeSource{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// Load reads all three tables from the warehouse.
func (s *SnowflakeSource) Load(ctx context.Context) (*model.Batches, error) {
	batches, err := loadBatches(ctx, s.db, s.cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}

	customers, products, sales := batches.RowCounts()
	s.logger.Info("Loaded Snowflake batches",
		zap.Int("customers", customers),
		zap.Int("products", products),
		zap.Int("sales", sales))

	return batches, nil
}

// Close closes the connection pool.
func (s *SnowflakeSource) Close() error {
	return s.db.Close()
}

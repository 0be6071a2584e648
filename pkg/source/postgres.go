// pkg/source/postgres.go
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/config"
	"github.com/techcommerce/data-quality/pkg/model"
)

// PostgresSource loads the raw batches from a PostgreSQL staging database.
type PostgresSource struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresSource creates and initializes a PostgreSQL source.
func NewPostgresSource(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresSource, error) {
	if cfg == nil {
		return nil, errors.New("postgres configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db.DB,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(
			ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()),
		)
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	if err := PingWithTimeout(ctx, db.DB, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	LogConnectionStats(logger, cfg.Database, db.DB)

	return &PostgresSource{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// Load reads all three tables from the staging database.
func (s *PostgresSource) Load(ctx context.Context) (*model.Batches, error) {
	batches, err := loadBatches(ctx, s.db, s.cfg.StatementTimeout)
	if err != nil {
		return nil, err
	}

	customers, products, sales := batches.RowCounts()
	s.logger.Info("Loaded PostgreSQL batches",
		zap.Int("customers", customers),
		zap.Int("products", products),
		zap.Int("sales", sales))

	return batches, nil
}

// Close closes the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// pkg/source/factory.go
package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/config"
)

// Factory creates batch sources from configuration.
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new source factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Create builds the source selected by the configuration.
func (f *Factory) Create(ctx context.Context) (Source, error) {
	switch f.cfg.Source {
	case config.SourceCSV:
		f.logger.Info("Creating CSV source")
		return NewCSVSource(f.cfg.CSV, f.logger.Named("csv-source")), nil

	case config.SourcePostgres:
		f.logger.Info("Creating PostgreSQL source")
		src, err := NewPostgresSource(ctx, f.cfg.Postgres, f.logger.Named("postgres-source"))
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL source: %w", err)
		}
		return src, nil

	case config.SourceSnowflake:
		f.logger.Info("Creating Snowflake source")
		src, err := NewSnowflakeSource(ctx, f.cfg.Snowflake, f.logger.Named("snowflake-source"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Snowflake source: %w", err)
		}
		return src, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", f.cfg.Source)
	}
}

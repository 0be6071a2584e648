// pkg/audit/audit.go
package audit

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

// Recorder persists the corrections applied during a pipeline run so the
// run can be audited afterwards.
type Recorder interface {
	// Record stores the operations of one run under its run id.
	Record(ctx context.Context, runID string, operations []model.Operation) error

	// Close releases any resources held by the recorder.
	Close() error
}

// PostgresRecorder writes correction records into the quality_corrections
// tracking table.
type PostgresRecorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresRecorder creates a recorder and ensures the tracking table exists.
func NewPostgresRecorder(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresRecorder, error) {
	if cfg == nil {
		return nil, errors.New("postgres configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit connection: %w", err)
	}

	recorder := &PostgresRecorder{
		db:     db,
		logger: logger,
	}

	if err := recorder.setupTrackingTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return recorder, nil
}

// setupTrackingTable ensures the quality_corrections tracking table exists
func (r *PostgresRecorder) setupTrackingTable(ctx context.Context) error {
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.quality_corrections (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			table_name TEXT NOT NULL,
			column_name TEXT,
			original_value TEXT,
			new_value TEXT,
			row_identifier TEXT NOT NULL,
			operation TEXT NOT NULL,
			reason TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := r.db.ExecContext(setupCtx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured quality_corrections table exists")
	return nil
}

// Record batch inserts correction operations into the tracking table.
func (r *PostgresRecorder) Record(ctx context.Context, runID string, operations []model.Operation) error {
	if len(operations) == 0 {
		return nil
	}

	recordCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTxx(recordCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PrepareContext(recordCtx, `
		INSERT INTO public.quality_corrections
		(run_id, table_name, column_name, original_value, new_value,
		 row_identifier, operation, reason, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range operations {
		_, err = stmt.ExecContext(recordCtx,
			runID,
			op.TableName,
			op.ColumnName,
			toNullableString(op.OriginalValue),
			op.NewValue,
			op.RowIdentifier,
			op.Operation,
			op.Reason,
			op.AppliedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert correction record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Recorded correction operations",
		zap.String("runID", runID),
		zap.Int("count", len(operations)))
	return nil
}

// Close closes the connection pool.
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}

// NopRecorder discards operations. Used when no audit sink is configured.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(ctx context.Context, runID string, operations []model.Operation) error {
	return nil
}

// Close implements Recorder.
func (NopRecorder) Close() error {
	return nil
}

// toNullableString safely converts an interface to a nullable string
func toNullableString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprintf("%v", v)
	return &s
}

// pkg/cleaner/pipeline.go
package cleaner

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
)

// Pipeline runs the three correction phases in their required order:
// standardize, deduplicate, reconcile. The ordering matters because the
// reconciler's key sets depend on deduplication having already run.
type Pipeline struct {
	standardizer *Standardizer
	deduplicator *Deduplicator
	reconciler   *Reconciler
	logger       *zap.Logger
}

// NewPipeline creates a pipeline with the wall clock as the current-date
// source.
func NewPipeline(logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Pipeline{
		standardizer: NewStandardizer(logger.Named("standardizer"), nil),
		deduplicator: NewDeduplicator(logger.Named("deduplicator")),
		reconciler:   NewReconciler(logger.Named("reconciler")),
		logger:       logger,
	}, nil
}

// WithClock replaces the current-date source and returns the modified
// pipeline. Tests inject a fixed date here so the future-date clamp is
// deterministic.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.standardizer = NewStandardizer(p.logger.Named("standardizer"), now)
	return p
}

// Run executes the full pipeline over the given batches and returns the
// corrected batches plus a structured report of every correction. Dirty
// data never fails the run; the only error condition is a nil input.
func (p *Pipeline) Run(batches *model.Batches) (*model.Batches, *model.PipelineReport, error) {
	if batches == nil {
		return nil, nil, errors.New("batches cannot be nil")
	}

	start := time.Now()
	report := &model.PipelineReport{
		RunID:     uuid.New().String(),
		StartedAt: start,
		Rows:      make(map[string]model.TableCounts, 3),
	}

	customersIn, productsIn, salesIn := batches.RowCounts()
	p.logger.Info("Starting pipeline run",
		zap.String("runID", report.RunID),
		zap.Int("customers", customersIn),
		zap.Int("products", productsIn),
		zap.Int("sales", salesIn))

	standardized, stdReport, stdOps := p.standardizer.Run(batches)
	deduplicated, dedReport, dedOps := p.deduplicator.Run(standardized)
	reconciled, recReport, recOps := p.reconciler.Run(deduplicated)

	report.Standardize = stdReport
	report.Dedupe = dedReport
	report.Reconcile = recReport
	report.Operations = append(report.Operations, stdOps...)
	report.Operations = append(report.Operations, dedOps...)
	report.Operations = append(report.Operations, recOps...)

	customersOut, productsOut, salesOut := reconciled.RowCounts()
	report.Rows["customers"] = model.TableCounts{In: customersIn, Out: customersOut}
	report.Rows["products"] = model.TableCounts{In: productsIn, Out: productsOut}
	report.Rows["sales"] = model.TableCounts{In: salesIn, Out: salesOut}
	report.Duration = time.Since(start)

	p.logger.Info("Pipeline run completed",
		zap.String("runID", report.RunID),
		zap.Int("totalCorrections", report.TotalCorrections()),
		zap.Int("customersOut", customersOut),
		zap.Int("productsOut", productsOut),
		zap.Int("salesOut", salesOut),
		zap.Duration("duration", report.Duration))

	return reconciled, report, nil
}

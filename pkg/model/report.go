// pkg/model/report.go
package model

import (
	"time"
)

// StandardizeReport counts the corrections applied by the standardizer
// phase. Rows are never removed at this stage, so every count refers to a
// field substitution or clamp. UnparsableDates is an observation, not a
// correction: the row is kept unchanged and the count stays stable across
// repeated passes.
type StandardizeReport struct {
	CustomerIDPlaceholders int `json:"customer_id_placeholders"`
	CustomerNameFills      int `json:"customer_name_fills"`
	StateSentinels         int `json:"state_sentinels"`
	ProductNameFills       int `json:"product_name_fills"`
	PriceCorrections       int `json:"price_corrections"`
	FutureDateClamps       int `json:"future_date_clamps"`
	UnparsableDates        int `json:"unparsable_dates"`
	QuantityCorrections    int `json:"quantity_corrections"`
}

// Total returns the number of corrections across all rules. Observed
// unparsable dates do not change any row and are excluded, so a pass
// over already-corrected batches totals zero.
func (r StandardizeReport) Total() int {
	return r.CustomerIDPlaceholders + r.CustomerNameFills + r.StateSentinels +
		r.ProductNameFills + r.PriceCorrections + r.FutureDateClamps +
		r.QuantityCorrections
}

// DedupeReport counts the rows removed by the deduplicator phase,
// categorized by the rule that removed them.
type DedupeReport struct {
	CustomerIDDuplicates    int `json:"customer_id_duplicates"`
	CustomerPlaceholderIDs  int `json:"customer_placeholder_ids"`
	CustomerEmailDuplicates int `json:"customer_email_duplicates"`
	ProductRowDuplicates    int `json:"product_row_duplicates"`
	SaleRowDuplicates       int `json:"sale_row_duplicates"`
}

// Total returns the number of rows removed across all rules.
func (r DedupeReport) Total() int {
	return r.CustomerIDDuplicates + r.CustomerPlaceholderIDs +
		r.CustomerEmailDuplicates + r.ProductRowDuplicates + r.SaleRowDuplicates
}

// ReconcileReport counts the referential discards and value corrections
// applied by the reconciler phase.
type ReconcileReport struct {
	CustomerRefDiscards int `json:"customer_ref_discards"`
	ProductRefDiscards  int `json:"product_ref_discards"`
	TotalValueFixes     int `json:"total_value_fixes"`
}

// Total returns the number of discards and corrections combined.
func (r ReconcileReport) Total() int {
	return r.CustomerRefDiscards + r.ProductRefDiscards + r.TotalValueFixes
}

// TableCounts records a table's row count before and after the pipeline.
type TableCounts struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

// PipelineReport is the structured audit output of one full pipeline run.
type PipelineReport struct {
	RunID       string                 `json:"run_id"`
	StartedAt   time.Time              `json:"started_at"`
	Duration    time.Duration          `json:"duration"`
	Standardize StandardizeReport      `json:"standardize"`
	Dedupe      DedupeReport           `json:"dedupe"`
	Reconcile   ReconcileReport        `json:"reconcile"`
	Rows        map[string]TableCounts `json:"rows"`
	Operations  []Operation            `json:"-"`
}

// TotalCorrections returns the number of corrections and removals across
// all three phases.
func (r *PipelineReport) TotalCorrections() int {
	return r.Standardize.Total() + r.Dedupe.Total() + r.Reconcile.Total()
}

// Clean reports whether the run changed nothing, which is what a second
// pass over already-corrected batches must produce.
func (r *PipelineReport) Clean() bool {
	return r.TotalCorrections() == 0
}

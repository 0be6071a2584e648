// pkg/model/operation.go
package model

import (
	"time"
)

// Operation represents a single field-level correction applied by the
// pipeline. Every sentinel substitution, clamp, and recomputation emits
// one Operation so the run can be audited afterwards.
type Operation struct {
	TableName     string      // Table the correction applied to
	ColumnName    string      // Column that was corrected
	OriginalValue interface{} // Original value (may be nil)
	NewValue      string      // Value after correction
	RowIdentifier string      // Primary key of the affected row
	Operation     string      // Kind of correction (e.g. "sentinel_fill")
	Reason        string      // Why the correction was needed
	AppliedAt     time.Time   // When the correction occurred
}

// Correction operation kinds.
const (
	OpSentinelFill    = "sentinel_fill"
	OpPlaceholderFill = "placeholder_fill"
	OpClamp           = "clamp"
	OpRecompute       = "recompute"
	OpDrop            = "row_drop"
)

// Correction reasons recorded alongside the operation kind.
const (
	ReasonMissingValue        = "missing_value"
	ReasonInvalidFormat       = "invalid_format"
	ReasonNonPositivePrice    = "non_positive_price"
	ReasonZeroQuantity        = "zero_quantity"
	ReasonFutureDate          = "future_date"
	ReasonDuplicateID         = "duplicate_id"
	ReasonDuplicateEmail      = "duplicate_email"
	ReasonDuplicateRow        = "duplicate_row"
	ReasonPlaceholderID       = "placeholder_id"
	ReasonDanglingCustomerRef = "dangling_customer_reference"
	ReasonDanglingProductRef  = "dangling_product_reference"
	ReasonTotalMismatch       = "total_value_mismatch"
)

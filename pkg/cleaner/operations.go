// pkg/cleaner/operations.go
package cleaner

import (
	"time"

	"github.com/techcommerce/data-quality/pkg/model"
)

// newOperation builds the audit record for a single correction.
func newOperation(table, column string, original interface{}, newValue, rowID, kind, reason string) model.Operation {
	return model.Operation{
		TableName:     table,
		ColumnName:    column,
		OriginalValue: original,
		NewValue:      newValue,
		RowIdentifier: rowID,
		Operation:     kind,
		Reason:        reason,
		AppliedAt:     time.Now(),
	}
}

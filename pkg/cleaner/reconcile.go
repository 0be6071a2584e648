// pkg/cleaner/reconcile.go
package cleaner

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
)

// Reconciler enforces relational and arithmetic consistency across the
// three cleaned tables. It runs last because it depends on the final
// surviving customer and product key sets. Customers and Products pass
// through unchanged.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Run filters sales against the surviving key sets and recomputes stored
// totals. Filtering is sequential: product references are checked on the
// already customer-filtered batch.
func (r *Reconciler) Run(batches *model.Batches) (*model.Batches, model.ReconcileReport, []model.Operation) {
	var report model.ReconcileReport
	var ops []model.Operation

	customerIDs := make(map[int64]bool, len(batches.Customers))
	for _, c := range batches.Customers {
		customerIDs[c.CustomerID] = true
	}
	productIDs := make(map[int64]bool, len(batches.Products))
	for _, p := range batches.Products {
		productIDs[p.ProductID] = true
	}

	// Pass 1: discard sales referencing a nonexistent customer. A sale
	// without a valid customer is unrecoverable, not repairable.
	afterCustomers := make([]model.Sale, 0, len(batches.Sales))
	for _, s := range batches.Sales {
		if !customerIDs[s.CustomerID] {
			report.CustomerRefDiscards++
			ops = append(ops, newOperation("sales", "customer_id", s.CustomerID,
				"", strconv.FormatInt(s.SaleID, 10), model.OpDrop, model.ReasonDanglingCustomerRef))
			continue
		}
		afterCustomers = append(afterCustomers, s)
	}

	// Pass 2: same rule for product references, on the customer-filtered
	// batch.
	surviving := make([]model.Sale, 0, len(afterCustomers))
	for _, s := range afterCustomers {
		if !productIDs[s.ProductID] {
			report.ProductRefDiscards++
			ops = append(ops, newOperation("sales", "product_id", s.ProductID,
				"", strconv.FormatInt(s.SaleID, 10), model.OpDrop, model.ReasonDanglingProductRef))
			continue
		}
		surviving = append(surviving, s)
	}

	// Pass 3: recompute totals. A stored total outside tolerance is
	// overwritten with the recomputed value, never discarded.
	for i, s := range surviving {
		calculated := float64(s.Quantity) * s.UnitPrice
		if math.Abs(s.TotalValue-calculated) > model.TotalTolerance {
			ops = append(ops, newOperation("sales", "total_value", s.TotalValue,
				strconv.FormatFloat(calculated, 'f', 2, 64),
				strconv.FormatInt(s.SaleID, 10), model.OpRecompute, model.ReasonTotalMismatch))
			surviving[i].TotalValue = calculated
			report.TotalValueFixes++
		}
	}

	r.logger.Info("Reconciliation completed",
		zap.Int("customerRefDiscards", report.CustomerRefDiscards),
		zap.Int("productRefDiscards", report.ProductRefDiscards),
		zap.Int("totalValueFixes", report.TotalValueFixes))

	out := &model.Batches{
		Customers: batches.Customers,
		Products:  batches.Products,
		Sales:     surviving,
	}
	return out, report, ops
}

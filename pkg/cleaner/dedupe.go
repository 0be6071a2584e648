// pkg/cleaner/dedupe.go
package cleaner

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
)

// Deduplicator removes redundant rows per table with a deterministic
// keep-first rule. It never merges field values across duplicates: one
// full record survives, the rest are discarded and reported.
type Deduplicator struct {
	logger *zap.Logger
}

// NewDeduplicator creates a deduplicator.
func NewDeduplicator(logger *zap.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Run deduplicates the three tables and returns the surviving rows along
// with removal counts categorized by rule.
func (d *Deduplicator) Run(batches *model.Batches) (*model.Batches, model.DedupeReport, []model.Operation) {
	var report model.DedupeReport
	var ops []model.Operation

	out := &model.Batches{}
	out.Customers = d.dedupeCustomers(batches.Customers, &report, &ops)
	out.Products = d.dedupeProducts(batches.Products, &report, &ops)
	out.Sales = d.dedupeSales(batches.Sales, &report, &ops)

	d.logger.Info("Deduplication completed",
		zap.Int("removed", report.Total()),
		zap.Int("customerIDDuplicates", report.CustomerIDDuplicates),
		zap.Int("customerPlaceholderIDs", report.CustomerPlaceholderIDs),
		zap.Int("customerEmailDuplicates", report.CustomerEmailDuplicates),
		zap.Int("productRowDuplicates", report.ProductRowDuplicates),
		zap.Int("saleRowDuplicates", report.SaleRowDuplicates))

	return out, report, ops
}

// dedupeCustomers applies the two sequential customer passes: first
// dedup by id (keep first) and drop placeholder-id rows, then dedup by
// email on the result of the id pass. The passes are order-dependent.
func (d *Deduplicator) dedupeCustomers(customers []model.Customer, report *model.DedupeReport, ops *[]model.Operation) []model.Customer {
	seenIDs := make(map[int64]bool, len(customers))
	byID := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		rowID := strconv.FormatInt(c.CustomerID, 10)

		if seenIDs[c.CustomerID] {
			report.CustomerIDDuplicates++
			*ops = append(*ops, newOperation("customers", "customer_id", c.CustomerID,
				"", rowID, model.OpDrop, model.ReasonDuplicateID))
			continue
		}
		seenIDs[c.CustomerID] = true

		// Rows whose id was originally missing carry the placeholder and
		// are unrecoverable: there is no valid customer to attach sales to.
		if !c.HasID() {
			report.CustomerPlaceholderIDs++
			*ops = append(*ops, newOperation("customers", "customer_id", c.CustomerID,
				"", rowID, model.OpDrop, model.ReasonPlaceholderID))
			continue
		}

		byID = append(byID, c)
	}

	seenEmails := make(map[string]bool, len(byID))
	result := make([]model.Customer, 0, len(byID))
	for _, c := range byID {
		if seenEmails[c.Email] {
			report.CustomerEmailDuplicates++
			*ops = append(*ops, newOperation("customers", "email", c.Email,
				"", strconv.FormatInt(c.CustomerID, 10), model.OpDrop, model.ReasonDuplicateEmail))
			continue
		}
		seenEmails[c.Email] = true
		result = append(result, c)
	}

	return result
}

func (d *Deduplicator) dedupeProducts(products []model.Product, report *model.DedupeReport, ops *[]model.Operation) []model.Product {
	seen := make(map[string]bool, len(products))
	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		key := p.Key()
		if seen[key] {
			report.ProductRowDuplicates++
			*ops = append(*ops, newOperation("products", "", key,
				"", strconv.FormatInt(p.ProductID, 10), model.OpDrop, model.ReasonDuplicateRow))
			continue
		}
		seen[key] = true
		result = append(result, p)
	}
	return result
}

func (d *Deduplicator) dedupeSales(sales []model.Sale, report *model.DedupeReport, ops *[]model.Operation) []model.Sale {
	seen := make(map[string]bool, len(sales))
	result := make([]model.Sale, 0, len(sales))
	for _, s := range sales {
		key := s.Key()
		if seen[key] {
			report.SaleRowDuplicates++
			*ops = append(*ops, newOperation("sales", "", key,
				"", strconv.FormatInt(s.SaleID, 10), model.OpDrop, model.ReasonDuplicateRow))
			continue
		}
		seen[key] = true
		result = append(result, s)
	}
	return result
}

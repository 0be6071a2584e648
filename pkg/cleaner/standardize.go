// pkg/cleaner/standardize.go
package cleaner

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
)

// Standardizer normalizes formats and fills missing fields in all three
// tables. It never removes rows; every substitution or clamp is counted
// and emitted as an audit operation.
type Standardizer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewStandardizer creates a standardizer. The now function supplies the
// current date for the future-date clamp so tests can inject a fixed one.
func NewStandardizer(logger *zap.Logger, now func() time.Time) *Standardizer {
	if now == nil {
		now = time.Now
	}
	return &Standardizer{
		logger: logger,
		now:    now,
	}
}

// Run standardizes the three tables and returns corrected copies along
// with the correction counts and the audit operations performed. Row
// order is preserved so the deduplicator's keep-first rule stays
// reproducible.
func (s *Standardizer) Run(batches *model.Batches) (*model.Batches, model.StandardizeReport, []model.Operation) {
	var report model.StandardizeReport
	var ops []model.Operation

	out := &model.Batches{
		Customers: make([]model.Customer, len(batches.Customers)),
		Products:  make([]model.Product, len(batches.Products)),
		Sales:     make([]model.Sale, len(batches.Sales)),
	}

	for i, c := range batches.Customers {
		out.Customers[i] = s.standardizeCustomer(c, &report, &ops)
	}
	for i, p := range batches.Products {
		out.Products[i] = s.standardizeProduct(p, &report, &ops)
	}

	today := truncateToDay(s.now())
	for i, sale := range batches.Sales {
		out.Sales[i] = s.standardizeSale(sale, today, &report, &ops)
	}

	s.logger.Info("Standardization completed",
		zap.Int("corrections", report.Total()),
		zap.Int("stateSentinels", report.StateSentinels),
		zap.Int("priceCorrections", report.PriceCorrections),
		zap.Int("futureDateClamps", report.FutureDateClamps),
		zap.Int("unparsableDates", report.UnparsableDates))

	return out, report, ops
}

func (s *Standardizer) standardizeCustomer(c model.Customer, report *model.StandardizeReport, ops *[]model.Operation) model.Customer {
	rowID := strconv.FormatInt(c.CustomerID, 10)

	if !c.HasID() {
		// The placeholder id is kept; the deduplicator drops these rows
		// after id dedup has run.
		report.CustomerIDPlaceholders++
		*ops = append(*ops, newOperation("customers", "customer_id", nil,
			strconv.FormatInt(model.PlaceholderCustomerID, 10), rowID,
			model.OpPlaceholderFill, model.ReasonMissingValue))
	}

	if c.Name == "" {
		*ops = append(*ops, newOperation("customers", "name", c.Name,
			model.SentinelCustomerName, rowID,
			model.OpSentinelFill, model.ReasonMissingValue))
		c.Name = model.SentinelCustomerName
		report.CustomerNameFills++
	}

	if len(c.State) != 2 {
		*ops = append(*ops, newOperation("customers", "state", c.State,
			model.SentinelState, rowID,
			model.OpSentinelFill, model.ReasonInvalidFormat))
		c.State = model.SentinelState
		report.StateSentinels++
	}

	return c
}

func (s *Standardizer) standardizeProduct(p model.Product, report *model.StandardizeReport, ops *[]model.Operation) model.Product {
	rowID := strconv.FormatInt(p.ProductID, 10)

	if p.ProductName == "" {
		*ops = append(*ops, newOperation("products", "product_name", p.ProductName,
			model.SentinelProductName, rowID,
			model.OpSentinelFill, model.ReasonMissingValue))
		p.ProductName = model.SentinelProductName
		report.ProductNameFills++
	}

	if p.Price <= 0 {
		*ops = append(*ops, newOperation("products", "price", p.Price,
			formatPrice(model.MinimumPrice), rowID,
			model.OpClamp, model.ReasonNonPositivePrice))
		p.Price = model.MinimumPrice
		report.PriceCorrections++
	}

	return p
}

func (s *Standardizer) standardizeSale(sale model.Sale, today time.Time, report *model.StandardizeReport, ops *[]model.Operation) model.Sale {
	rowID := strconv.FormatInt(sale.SaleID, 10)

	if !sale.HasDate() {
		// Unparsable dates stay as the zero value and the sale is kept.
		// Nothing changes on the row, so this is observed but emits no
		// audit operation; the expectation suite surfaces these rows.
		report.UnparsableDates++
	} else if sale.SaleDate.After(today) {
		*ops = append(*ops, newOperation("sales", "sale_date",
			sale.SaleDate.Format("2006-01-02"),
			today.Format("2006-01-02"), rowID,
			model.OpClamp, model.ReasonFutureDate))
		sale.SaleDate = today
		report.FutureDateClamps++
	}

	// Only quantity zero is corrected. Negative quantities are a data
	// defect to surface, not silently flip.
	if sale.Quantity == 0 {
		*ops = append(*ops, newOperation("sales", "quantity", int64(0),
			"1", rowID, model.OpClamp, model.ReasonZeroQuantity))
		sale.Quantity = 1
		report.QuantityCorrections++
	}

	return sale
}

// truncateToDay drops the time-of-day component so the future-date rule
// compares calendar dates, not instants.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

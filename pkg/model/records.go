// pkg/model/records.go
package model

import (
	"fmt"
	"time"
)

// Sale status values accepted by the pipeline.
const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
)

// Sentinel and correction constants applied by the standardizer and
// reconciler phases.
const (
	// PlaceholderCustomerID marks a customer whose id arrived missing.
	// Valid customer ids start at 1, so 0 never collides with real data.
	PlaceholderCustomerID int64 = 0

	// SentinelCustomerName fills a missing customer name.
	SentinelCustomerName = "Unknown_Name"

	// SentinelProductName fills a missing product name.
	SentinelProductName = "Unnamed_Product"

	// SentinelState replaces a state code that is not exactly two characters.
	SentinelState = "NA"

	// MinimumPrice replaces a non-positive product price.
	MinimumPrice = 0.01

	// TotalTolerance is the absolute tolerance when comparing a stored
	// sale total against quantity * unit price.
	TotalTolerance = 0.01
)

// Customer represents one row of the customers table.
// A CustomerID equal to PlaceholderCustomerID means the id arrived missing.
type Customer struct {
	CustomerID int64  `db:"customer_id" json:"customer_id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	State      string `db:"state" json:"state"`
}

// HasID reports whether the customer carries a real (non-placeholder) id.
func (c Customer) HasID() bool {
	return c.CustomerID != PlaceholderCustomerID
}

// Product represents one row of the products table.
type Product struct {
	ProductID   int64   `db:"product_id" json:"product_id"`
	ProductName string  `db:"product_name" json:"product_name"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"`
}

// Key returns a full-row identity key used for whole-row deduplication.
func (p Product) Key() string {
	return fmt.Sprintf("%d|%s|%.4f|%s", p.ProductID, p.ProductName, p.Price, p.Category)
}

// Sale represents one row of the sales table.
// A zero SaleDate means the date arrived missing or unparsable.
type Sale struct {
	SaleID     int64     `db:"sale_id" json:"sale_id"`
	CustomerID int64     `db:"customer_id" json:"customer_id"`
	ProductID  int64     `db:"product_id" json:"product_id"`
	Quantity   int64     `db:"quantity" json:"quantity"`
	UnitPrice  float64   `db:"unit_price" json:"unit_price"`
	TotalValue float64   `db:"total_value" json:"total_value"`
	SaleDate   time.Time `db:"sale_date" json:"sale_date"`
	Status     string    `db:"status" json:"status"`
}

// HasDate reports whether the sale carries a usable date.
func (s Sale) HasDate() bool {
	return !s.SaleDate.IsZero()
}

// Key returns a full-row identity key used for whole-row deduplication.
// The date participates at day precision, matching the ingested grain.
func (s Sale) Key() string {
	date := ""
	if s.HasDate() {
		date = s.SaleDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%d|%d|%d|%d|%.4f|%.4f|%s|%s",
		s.SaleID, s.CustomerID, s.ProductID, s.Quantity,
		s.UnitPrice, s.TotalValue, date, s.Status)
}

// IsValidStatus reports whether a status string is one of the accepted
// sale statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Batches bundles the three tables threaded through the pipeline phases.
type Batches struct {
	Customers []Customer `json:"customers"`
	Products  []Product  `json:"products"`
	Sales     []Sale     `json:"sales"`
}

// RowCounts returns the number of rows per table, for logging and reports.
func (b *Batches) RowCounts() (customers, products, sales int) {
	return len(b.Customers), len(b.Products), len(b.Sales)
}

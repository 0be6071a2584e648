// pkg/cleaner/verify.go
package cleaner

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
)

// IntegrityIssue names one violated output guarantee.
type IntegrityIssue struct {
	Table         string `json:"table"`
	Rule          string `json:"rule"`
	RowIdentifier string `json:"row_identifier"`
	Description   string `json:"description"`
}

// VerificationReport contains the results of verifying cleaned batches.
type VerificationReport struct {
	VerifiedAt time.Time        `json:"verified_at"`
	Passed     bool             `json:"passed"`
	Issues     []IntegrityIssue `json:"issues"`
	Duration   time.Duration    `json:"duration"`
}

// Verifier checks that cleaned batches actually hold the guarantees the
// pipeline promises. It is independent of the correction code so a bug
// in a phase cannot hide itself.
type Verifier struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewVerifier creates a verifier. A nil clock uses the current time.
func NewVerifier(logger *zap.Logger, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		logger: logger,
		now:    now,
	}
}

// Verify checks every output guarantee over the batches and reports each
// violation individually.
func (v *Verifier) Verify(batches *model.Batches) *VerificationReport {
	// The injected clock only feeds the future-date rule; elapsed time is
	// measured against the wall clock.
	began := time.Now()
	report := &VerificationReport{
		VerifiedAt: v.now(),
		Issues:     make([]IntegrityIssue, 0),
	}

	report.Issues = append(report.Issues, v.verifyCustomers(batches.Customers)...)
	report.Issues = append(report.Issues, v.verifyProducts(batches.Products)...)
	report.Issues = append(report.Issues, v.verifySales(batches)...)

	report.Passed = len(report.Issues) == 0
	report.Duration = time.Since(began)

	if report.Passed {
		v.logger.Info("Output verification successful",
			zap.Duration("duration", report.Duration))
	} else {
		v.logger.Warn("Output verification found issues",
			zap.Int("issues", len(report.Issues)),
			zap.Duration("duration", report.Duration))
	}

	return report
}

func (v *Verifier) verifyCustomers(customers []model.Customer) []IntegrityIssue {
	var issues []IntegrityIssue

	seenIDs := make(map[int64]bool, len(customers))
	seenEmails := make(map[string]bool, len(customers))
	for _, c := range customers {
		rowID := fmt.Sprintf("customer_id=%d", c.CustomerID)

		if !c.HasID() {
			issues = append(issues, IntegrityIssue{
				Table:         "customers",
				Rule:          "no_placeholder_ids",
				RowIdentifier: rowID,
				Description:   "placeholder customer id survived deduplication",
			})
		} else if seenIDs[c.CustomerID] {
			issues = append(issues, IntegrityIssue{
				Table:         "customers",
				Rule:          "unique_customer_id",
				RowIdentifier: rowID,
				Description:   "duplicate customer id in output",
			})
		}
		seenIDs[c.CustomerID] = true

		if c.Email != "" {
			if seenEmails[c.Email] {
				issues = append(issues, IntegrityIssue{
					Table:         "customers",
					Rule:          "unique_email",
					RowIdentifier: rowID,
					Description:   fmt.Sprintf("duplicate email %q in output", c.Email),
				})
			}
			seenEmails[c.Email] = true
		}

		if c.Name == "" {
			issues = append(issues, IntegrityIssue{
				Table:         "customers",
				Rule:          "name_present",
				RowIdentifier: rowID,
				Description:   "empty name survived standardization",
			})
		}
		if len(c.State) != 2 {
			issues = append(issues, IntegrityIssue{
				Table:         "customers",
				Rule:          "state_length",
				RowIdentifier: rowID,
				Description:   fmt.Sprintf("state %q is not two characters", c.State),
			})
		}
	}

	return issues
}

func (v *Verifier) verifyProducts(products []model.Product) []IntegrityIssue {
	var issues []IntegrityIssue

	for _, p := range products {
		rowID := fmt.Sprintf("product_id=%d", p.ProductID)

		if p.ProductName == "" {
			issues = append(issues, IntegrityIssue{
				Table:         "products",
				Rule:          "product_name_present",
				RowIdentifier: rowID,
				Description:   "empty product name survived standardization",
			})
		}
		if p.Price < model.MinimumPrice {
			issues = append(issues, IntegrityIssue{
				Table:         "products",
				Rule:          "minimum_price",
				RowIdentifier: rowID,
				Description:   fmt.Sprintf("price %.4f is below the minimum", p.Price),
			})
		}
	}

	return issues
}

func (v *Verifier) verifySales(batches *model.Batches) []IntegrityIssue {
	var issues []IntegrityIssue

	customerIDs := make(map[int64]bool, len(batches.Customers))
	for _, c := range batches.Customers {
		customerIDs[c.CustomerID] = true
	}
	productIDs := make(map[int64]bool, len(batches.Products))
	for _, p := range batches.Products {
		productIDs[p.ProductID] = true
	}

	today := truncateToDay(v.now())
	for _, s := range batches.Sales {
		rowID := fmt.Sprintf("sale_id=%d", s.SaleID)

		if !customerIDs[s.CustomerID] {
			issues = append(issues, IntegrityIssue{
				Table:         "sales",
				Rule:          "customer_reference",
				RowIdentifier: rowID,
				Description:   fmt.Sprintf("sale references unknown customer %d", s.CustomerID),
			})
		}
		if !productIDs[s.ProductID] {
			issues = append(issues, IntegrityIssue{
				Table:         "sales",
				Rule:          "product_reference",
				RowIdentifier: rowID,
				Description:   fmt.Sprintf("sale references unknown product %d", s.ProductID),
			})
		}
		if s.Quantity == 0 {
			issues = append(issues, IntegrityIssue{
				Table:         "sales",
				Rule:          "nonzero_quantity",
				RowIdentifier: rowID,
				Description:   "zero quantity survived standardization",
			})
		}
		if s.HasDate() && s.SaleDate.After(today) {
			issues = append(issues, IntegrityIssue{
				Table:         "sales",
				Rule:          "no_future_dates",
				RowIdentifier: rowID,
				Description:   fmt.Sprintf("sale date %s is in the future", s.SaleDate.Format("2006-01-02")),
			})
		}

		calculated := float64(s.Quantity) * s.UnitPrice
		if math.Abs(s.TotalValue-calculated) > model.TotalTolerance {
			issues = append(issues, IntegrityIssue{
				Table:         "sales",
				Rule:          "total_consistency",
				RowIdentifier: rowID,
				Description: fmt.Sprintf("total %.2f does not match quantity*unit_price %.2f",
					s.TotalValue, calculated),
			})
		}
	}

	return issues
}

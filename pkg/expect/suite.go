// pkg/expect/suite.go
package expect

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
	"github.com/techcommerce/data-quality/pkg/schema"
)

// Quality dimensions checked by the suite.
const (
	DimCompleteness = "completeness"
	DimUniqueness   = "uniqueness"
	DimValidity     = "validity"
	DimConsistency  = "consistency"
	DimReferential  = "referential_integrity"
	DimTimeliness   = "timeliness"
)

// Dimension statuses.
const (
	StatusPass    = "pass"
	StatusWarning = "warning"
	StatusFail    = "fail"
)

// Dimension holds the outcome of one quality dimension check.
type Dimension struct {
	Name        string         `json:"name"`
	Score       float64        `json:"score"`
	Status      string         `json:"status"`
	IssueCount  int            `json:"issue_count"`
	RecordCount int            `json:"record_count"`
	Details     map[string]int `json:"details"`
	Suggestion  string         `json:"suggestion,omitempty"`
}

// CheckResult is the outcome of running the full expectation suite over
// a set of batches.
type CheckResult struct {
	CheckID         string                `json:"check_id"`
	CheckedAt       time.Time             `json:"checked_at"`
	Dimensions      map[string]*Dimension `json:"dimensions"`
	OverallScore    float64               `json:"overall_score"`
	Recommendations []string              `json:"recommendations"`
	Duration        time.Duration         `json:"duration"`
}

var suggestions = map[string]string{
	DimCompleteness: "check the extraction flow so required fields always carry values",
	DimUniqueness:   "add uniqueness constraints upstream and trace the duplicate origin",
	DimValidity:     "tighten validation rules at the point of capture",
	DimConsistency:  "align enumerations and formats with the declared reference sets",
	DimReferential:  "verify that parent records load before their dependents",
	DimTimeliness:   "review date capture; future or missing dates point at entry defects",
}

// Suite evaluates quality expectations over cleaned batches. It only
// observes: nothing is corrected here, so it doubles as verification of
// the pipeline's invariants.
type Suite struct {
	rules  *Rules
	logger *zap.Logger
	now    func() time.Time
}

// NewSuite creates a suite with the given rules. Nil rules mean defaults.
func NewSuite(rules *Rules, logger *zap.Logger) *Suite {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Suite{
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the current-date source and returns the modified
// suite.
func (s *Suite) WithClock(now func() time.Time) *Suite {
	s.now = now
	return s
}

// Check runs every dimension over the batches and computes the weighted
// overall score.
func (s *Suite) Check(batches *model.Batches) *CheckResult {
	// The injected clock only feeds date rules; elapsed time is measured
	// against the wall clock.
	began := time.Now()
	result := &CheckResult{
		CheckID:    uuid.New().String(),
		CheckedAt:  s.now(),
		Dimensions: make(map[string]*Dimension, 6),
	}

	result.Dimensions[DimCompleteness] = s.checkCompleteness(batches)
	result.Dimensions[DimUniqueness] = s.checkUniqueness(batches)
	result.Dimensions[DimValidity] = s.checkValidity(batches)
	result.Dimensions[DimConsistency] = s.checkConsistency(batches)
	result.Dimensions[DimReferential] = s.checkReferential(batches)
	result.Dimensions[DimTimeliness] = s.checkTimeliness(batches)

	totalScore := 0.0
	totalWeight := 0.0
	for name, dim := range result.Dimensions {
		w := s.rules.weight(name)
		totalScore += dim.Score * w
		totalWeight += w
	}
	if totalWeight > 0 {
		result.OverallScore = totalScore / totalWeight
	}

	result.Recommendations = s.recommendations(result)
	result.Duration = time.Since(began)

	s.logger.Info("Expectation check completed",
		zap.String("checkID", result.CheckID),
		zap.Float64("overallScore", result.OverallScore),
		zap.Int("dimensions", len(result.Dimensions)))

	return result
}

func (s *Suite) checkCompleteness(batches *model.Batches) *Dimension {
	details := map[string]int{}
	records := len(batches.Customers) + len(batches.Products) + len(batches.Sales)
	issues := 0

	for _, c := range batches.Customers {
		if c.Name == "" || c.Name == model.SentinelCustomerName {
			details["customer_name_missing"]++
			issues++
		}
		if c.Email == "" {
			details["customer_email_missing"]++
			issues++
		}
	}
	for _, p := range batches.Products {
		if p.ProductName == "" || p.ProductName == model.SentinelProductName {
			details["product_name_missing"]++
			issues++
		}
	}
	for _, sale := range batches.Sales {
		if !sale.HasDate() {
			details["sale_date_missing"]++
			issues++
		}
	}

	return s.newDimension(DimCompleteness, issues, records, details)
}

func (s *Suite) checkUniqueness(batches *model.Batches) *Dimension {
	details := map[string]int{}
	records := len(batches.Customers)*2 + len(batches.Products) + len(batches.Sales)
	issues := 0

	issues += countDuplicates(batches.Customers, func(c model.Customer) string {
		return fmt.Sprintf("id:%d", c.CustomerID)
	}, details, "customer_id_duplicates")
	issues += countDuplicates(batches.Customers, func(c model.Customer) string {
		return "email:" + c.Email
	}, details, "customer_email_duplicates")
	issues += countDuplicates(batches.Products, func(p model.Product) string {
		return fmt.Sprintf("id:%d", p.ProductID)
	}, details, "product_id_duplicates")
	issues += countDuplicates(batches.Sales, func(sale model.Sale) string {
		return fmt.Sprintf("id:%d", sale.SaleID)
	}, details, "sale_id_duplicates")

	return s.newDimension(DimUniqueness, issues, records, details)
}

func (s *Suite) checkValidity(batches *model.Batches) *Dimension {
	details := map[string]int{}
	records := len(batches.Customers) + len(batches.Products) + len(batches.Sales)
	issues := 0

	for _, c := range batches.Customers {
		if c.Email != "" && !schema.IsValidEmail(c.Email) {
			details["invalid_emails"]++
			issues++
		}
	}
	for _, p := range batches.Products {
		if p.Price <= 0 {
			details["non_positive_prices"]++
			issues++
		}
	}
	for _, sale := range batches.Sales {
		if sale.Quantity < 1 {
			details["invalid_quantities"]++
			issues++
		}
		if sale.UnitPrice <= 0 {
			details["non_positive_unit_prices"]++
			issues++
		}
		if !model.IsValidStatus(sale.Status) {
			details["invalid_statuses"]++
			issues++
		}
	}

	return s.newDimension(DimValidity, issues, records, details)
}

func (s *Suite) checkConsistency(batches *model.Batches) *Dimension {
	details := map[string]int{}
	records := len(batches.Customers) + len(batches.Products) + len(batches.Sales)
	issues := 0

	for _, c := range batches.Customers {
		// The sentinel is an accepted marker, not an inconsistency.
		if c.State != model.SentinelState && !schema.IsKnownState(c.State) {
			details["unknown_states"]++
			issues++
		}
	}
	for _, p := range batches.Products {
		if !schema.IsValidCategory(p.Category, s.rules.Categories) {
			details["unknown_categories"]++
			issues++
		}
	}
	for _, sale := range batches.Sales {
		calculated := float64(sale.Quantity) * sale.UnitPrice
		if math.Abs(sale.TotalValue-calculated) > s.rules.TotalTolerance {
			details["total_value_mismatches"]++
			issues++
		}
	}

	return s.newDimension(DimConsistency, issues, records, details)
}

func (s *Suite) checkReferential(batches *model.Batches) *Dimension {
	details := map[string]int{}
	records := len(batches.Sales) * 2
	issues := 0

	customerIDs := make(map[int64]bool, len(batches.Customers))
	for _, c := range batches.Customers {
		customerIDs[c.CustomerID] = true
	}
	productIDs := make(map[int64]bool, len(batches.Products))
	for _, p := range batches.Products {
		productIDs[p.ProductID] = true
	}

	for _, sale := range batches.Sales {
		if !customerIDs[sale.CustomerID] {
			details["dangling_customer_refs"]++
			issues++
		}
		if !productIDs[sale.ProductID] {
			details["dangling_product_refs"]++
			issues++
		}
	}

	return s.newDimension(DimReferential, issues, records, details)
}

func (s *Suite) checkTimeliness(batches *model.Batches) *Dimension {
	details := map[string]int{}
	records := len(batches.Sales)
	issues := 0

	today := s.now()
	for _, sale := range batches.Sales {
		if !sale.HasDate() {
			details["missing_dates"]++
			issues++
		} else if sale.SaleDate.After(today) {
			details["future_dates"]++
			issues++
		}
	}

	return s.newDimension(DimTimeliness, issues, records, details)
}

// newDimension scores a dimension from its issue and record counts.
func (s *Suite) newDimension(name string, issues, records int, details map[string]int) *Dimension {
	score := 100.0
	if records > 0 {
		score = 100.0 * (1.0 - float64(issues)/float64(records))
		if score < 0 {
			score = 0
		}
	}

	dim := &Dimension{
		Name:        name,
		Score:       score,
		Status:      s.status(score),
		IssueCount:  issues,
		RecordCount: records,
		Details:     details,
	}
	if dim.Status != StatusPass {
		dim.Suggestion = suggestions[name]
	}
	return dim
}

func (s *Suite) status(score float64) string {
	switch {
	case score >= s.rules.WarnBelow:
		return StatusPass
	case score >= s.rules.FailBelow:
		return StatusWarning
	default:
		return StatusFail
	}
}

func (s *Suite) recommendations(result *CheckResult) []string {
	var recommendations []string

	if result.OverallScore < s.rules.FailBelow {
		recommendations = append(recommendations,
			"overall quality score is low; review the data sources and the correction rules end to end")
	} else if result.OverallScore < s.rules.WarnBelow {
		recommendations = append(recommendations,
			"overall quality has room for improvement; prioritize the failing dimensions below")
	}

	for _, name := range []string{
		DimCompleteness, DimUniqueness, DimValidity,
		DimConsistency, DimReferential, DimTimeliness,
	} {
		dim := result.Dimensions[name]
		if dim != nil && dim.Status == StatusFail {
			recommendations = append(recommendations,
				fmt.Sprintf("%s: %s", name, dim.Suggestion))
		}
	}

	return recommendations
}

// countDuplicates counts rows whose key was already seen, in order.
func countDuplicates[T any](rows []T, key func(T) string, details map[string]int, label string) int {
	seen := make(map[string]bool, len(rows))
	count := 0
	for _, row := range rows {
		k := key(row)
		if seen[k] {
			details[label]++
			count++
			continue
		}
		seen[k] = true
	}
	return count
}

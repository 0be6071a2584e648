// pkg/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/techcommerce/data-quality/pkg/expect"
	"github.com/techcommerce/data-quality/pkg/model"
)

// RunReport bundles the correction report of one pipeline run with the
// expectation check over its output.
type RunReport struct {
	Pipeline *model.PipelineReport `json:"pipeline"`
	Quality  *expect.CheckResult   `json:"quality,omitempty"`
}

// ToJSON renders the report as indented JSON for machine consumption.
func (r *RunReport) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

// Render creates a human-readable run report.
func (r *RunReport) Render() string {
	p := r.Pipeline

	var b strings.Builder
	fmt.Fprintf(&b, `
Data Quality Run Report
=======================
Run ID:                  %s
Started:                 %s
Duration:                %s

Row Counts
----------
Customers:               %d -> %d
Products:                %d -> %d
Sales:                   %d -> %d

Standardization
---------------
Customer ID Placeholders: %d
Customer Name Fills:      %d
State Sentinels:          %d
Product Name Fills:       %d
Price Corrections:        %d
Future Date Clamps:       %d
Unparsable Dates:         %d
Quantity Corrections:     %d

Deduplication
-------------
Customer ID Duplicates:   %d
Customer Placeholder IDs: %d
Customer Email Duplicates:%d
Product Row Duplicates:   %d
Sale Row Duplicates:      %d

Reconciliation
--------------
Customer Ref Discards:    %d
Product Ref Discards:     %d
Total Value Fixes:        %d

Total Corrections:        %d
`,
		p.RunID,
		p.StartedAt.Format(time.RFC3339),
		p.Duration.Round(time.Millisecond),

		p.Rows["customers"].In, p.Rows["customers"].Out,
		p.Rows["products"].In, p.Rows["products"].Out,
		p.Rows["sales"].In, p.Rows["sales"].Out,

		p.Standardize.CustomerIDPlaceholders,
		p.Standardize.CustomerNameFills,
		p.Standardize.StateSentinels,
		p.Standardize.ProductNameFills,
		p.Standardize.PriceCorrections,
		p.Standardize.FutureDateClamps,
		p.Standardize.UnparsableDates,
		p.Standardize.QuantityCorrections,

		p.Dedupe.CustomerIDDuplicates,
		p.Dedupe.CustomerPlaceholderIDs,
		p.Dedupe.CustomerEmailDuplicates,
		p.Dedupe.ProductRowDuplicates,
		p.Dedupe.SaleRowDuplicates,

		p.Reconcile.CustomerRefDiscards,
		p.Reconcile.ProductRefDiscards,
		p.Reconcile.TotalValueFixes,

		p.TotalCorrections(),
	)

	if r.Quality != nil {
		b.WriteString(renderQuality(r.Quality))
	}

	return b.String()
}

func renderQuality(q *expect.CheckResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
Quality Check
-------------
Check ID:                %s
Overall Score:           %.1f
`, q.CheckID, q.OverallScore)

	for _, name := range []string{
		expect.DimCompleteness,
		expect.DimUniqueness,
		expect.DimValidity,
		expect.DimConsistency,
		expect.DimReferential,
		expect.DimTimeliness,
	} {
		dim := q.Dimensions[name]
		if dim == nil {
			continue
		}
		fmt.Fprintf(&b, "%-24s %.1f (%s, %d issues)\n",
			name+":", dim.Score, dim.Status, dim.IssueCount)
	}

	if len(q.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n---------------\n")
		for _, rec := range q.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}

package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/expect"
	"github.com/techcommerce/data-quality/pkg/model"
)

func sampleReport() *RunReport {
	pipeline := &model.PipelineReport{
		RunID:     "run-123",
		StartedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Standardize: model.StandardizeReport{
			PriceCorrections: 2,
			StateSentinels:   1,
		},
		Dedupe:    model.DedupeReport{CustomerIDDuplicates: 1},
		Reconcile: model.ReconcileReport{TotalValueFixes: 3},
		Rows: map[string]model.TableCounts{
			"customers": {In: 10, Out: 9},
			"products":  {In: 5, Out: 5},
			"sales":     {In: 20, Out: 18},
		},
	}

	quality := expect.NewSuite(nil, zap.NewNop()).Check(&model.Batches{
		Customers: []model.Customer{{CustomerID: 1, Name: "Ana", Email: "ana@example.com", State: "SP"}},
	})

	return &RunReport{Pipeline: pipeline, Quality: quality}
}

func TestRunReport_Render(t *testing.T) {
	t.Run("Should include the run header and phase counts", func(t *testing.T) {
		text := sampleReport().Render()

		assert.Contains(t, text, "Data Quality Run Report")
		assert.Contains(t, text, "run-123")
		assert.Contains(t, text, "Customers:               10 -> 9")
		assert.Contains(t, text, "Price Corrections:        2")
		assert.Contains(t, text, "Customer ID Duplicates:   1")
		assert.Contains(t, text, "Total Value Fixes:        3")
		assert.Contains(t, text, "Total Corrections:        7")
	})

	t.Run("Should include every quality dimension", func(t *testing.T) {
		text := sampleReport().Render()

		assert.Contains(t, text, "Quality Check")
		assert.Contains(t, text, "completeness:")
		assert.Contains(t, text, "timeliness:")
	})

	t.Run("Should omit the quality section when no check ran", func(t *testing.T) {
		r := sampleReport()
		r.Quality = nil

		assert.NotContains(t, r.Render(), "Quality Check")
	})
}

func TestRunReport_ToJSON(t *testing.T) {
	t.Run("Should produce parseable JSON with both sections", func(t *testing.T) {
		out, err := sampleReport().ToJSON()
		require.NoError(t, err)

		var decoded map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Contains(t, decoded, "pipeline")
		assert.Contains(t, decoded, "quality")
	})
}

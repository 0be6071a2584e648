package source

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/config"
)

func testCSVConfig() config.CSVConfig {
	return config.CSVConfig{
		CustomersPath: filepath.Join("testdata", "customers.csv"),
		ProductsPath:  filepath.Join("testdata", "products.csv"),
		SalesPath:     filepath.Join("testdata", "sales.csv"),
	}
}

func TestCSVSource_Load(t *testing.T) {
	t.Run("Should load all three tables", func(t *testing.T) {
		src := NewCSVSource(testCSVConfig(), zap.NewNop())
		defer src.Close()

		batches, err := src.Load(context.Background())
		require.NoError(t, err)

		assert.Len(t, batches.Customers, 4)
		assert.Len(t, batches.Products, 4)
		assert.Len(t, batches.Sales, 4)
	})

	t.Run("Should coerce missing and unparsable cells to zero markers", func(t *testing.T) {
		src := NewCSVSource(testCSVConfig(), zap.NewNop())
		defer src.Close()

		batches, err := src.Load(context.Background())
		require.NoError(t, err)

		// Empty and non-numeric customer ids arrive as the zero marker.
		assert.Equal(t, int64(0), batches.Customers[1].CustomerID)
		assert.Equal(t, int64(0), batches.Customers[3].CustomerID)
		assert.Equal(t, int64(1), batches.Customers[0].CustomerID)

		// Unparsable price arrives as zero for the standardizer to clamp.
		assert.Equal(t, 0.0, batches.Products[3].Price)
		assert.Equal(t, -5.0, batches.Products[2].Price)
	})

	t.Run("Should parse dates in the accepted layouts", func(t *testing.T) {
		src := NewCSVSource(testCSVConfig(), zap.NewNop())
		defer src.Close()

		batches, err := src.Load(context.Background())
		require.NoError(t, err)

		assert.True(t, batches.Sales[0].SaleDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, batches.Sales[1].SaleDate.Equal(time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)))

		// Unparsable and empty dates arrive as the zero time.
		assert.False(t, batches.Sales[2].HasDate())
		assert.False(t, batches.Sales[3].HasDate())
	})

	t.Run("Should reject a table with the wrong column set", func(t *testing.T) {
		cfg := testCSVConfig()
		cfg.CustomersPath = filepath.Join("testdata", "bad_header.csv")
		src := NewCSVSource(cfg, zap.NewNop())

		_, err := src.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid customers schema")
	})

	t.Run("Should combine independent per-table failures", func(t *testing.T) {
		cfg := config.CSVConfig{
			CustomersPath: filepath.Join("testdata", "absent.csv"),
			ProductsPath:  filepath.Join("testdata", "also_absent.csv"),
			SalesPath:     filepath.Join("testdata", "sales.csv"),
		}
		src := NewCSVSource(cfg, zap.NewNop())

		_, err := src.Load(context.Background())
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 2)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("Should accept every declared layout", func(t *testing.T) {
		for _, value := range []string{
			"2026-03-01",
			"2026-03-01 14:30:00",
			"2026-03-01T14:30:00",
			"2026/03/01",
			"03/01/2026",
		} {
			_, ok := parseDate(value)
			assert.True(t, ok, value)
		}
	})

	t.Run("Should report empty and garbage values as unparsable", func(t *testing.T) {
		for _, value := range []string{"", "  ", "yesterday", "2026-13-45"} {
			parsed, ok := parseDate(value)
			assert.False(t, ok, value)
			assert.True(t, parsed.IsZero(), value)
		}
	})
}

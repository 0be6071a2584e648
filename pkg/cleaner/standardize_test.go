package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/model"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	}
}

func TestStandardizer_Customers(t *testing.T) {
	s := NewStandardizer(zap.NewNop(), fixedClock())

	t.Run("Should fill missing name with the sentinel", func(t *testing.T) {
		out, report, ops := s.Run(&model.Batches{
			Customers: []model.Customer{{CustomerID: 1, Email: "a@a.com", State: "SP"}},
		})

		require.Len(t, out.Customers, 1)
		assert.Equal(t, model.SentinelCustomerName, out.Customers[0].Name)
		assert.Equal(t, 1, report.CustomerNameFills)
		require.Len(t, ops, 1)
		assert.Equal(t, model.OpSentinelFill, ops[0].Operation)
	})

	t.Run("Should replace state not exactly two characters", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Customers: []model.Customer{
				{CustomerID: 1, Name: "Ana", Email: "a@a.com", State: "São Paulo"},
				{CustomerID: 2, Name: "Bia", Email: "b@b.com", State: ""},
			},
		})

		assert.Equal(t, model.SentinelState, out.Customers[0].State)
		assert.Equal(t, model.SentinelState, out.Customers[1].State)
		assert.Equal(t, 2, report.StateSentinels)
	})

	t.Run("Should keep any two-character state", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Customers: []model.Customer{{CustomerID: 1, Name: "Ana", Email: "a@a.com", State: "XX"}},
		})

		assert.Equal(t, "XX", out.Customers[0].State)
		assert.Equal(t, 0, report.StateSentinels)
	})

	t.Run("Should count placeholder ids without dropping the row", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Customers: []model.Customer{{Name: "Carlos", Email: "c@c.com", State: "SP"}},
		})

		require.Len(t, out.Customers, 1)
		assert.Equal(t, model.PlaceholderCustomerID, out.Customers[0].CustomerID)
		assert.Equal(t, 1, report.CustomerIDPlaceholders)
	})
}

func TestStandardizer_Products(t *testing.T) {
	s := NewStandardizer(zap.NewNop(), fixedClock())

	t.Run("Should clamp negative price to the minimum", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Products: []model.Product{{ProductID: 10, ProductName: "Mouse", Price: -50.0, Category: "Electronics"}},
		})

		assert.Equal(t, model.MinimumPrice, out.Products[0].Price)
		assert.Equal(t, 1, report.PriceCorrections)
	})

	t.Run("Should clamp zero price to the minimum", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Products: []model.Product{{ProductID: 10, ProductName: "Mouse", Price: 0, Category: "Electronics"}},
		})

		assert.Equal(t, model.MinimumPrice, out.Products[0].Price)
		assert.Equal(t, 1, report.PriceCorrections)
	})

	t.Run("Should fill missing product name", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Products: []model.Product{{ProductID: 10, Price: 19.9, Category: "Books"}},
		})

		assert.Equal(t, model.SentinelProductName, out.Products[0].ProductName)
		assert.Equal(t, 1, report.ProductNameFills)
	})

	t.Run("Should leave valid products untouched", func(t *testing.T) {
		in := model.Product{ProductID: 10, ProductName: "Mouse", Price: 89.9, Category: "Electronics"}
		out, report, ops := s.Run(&model.Batches{Products: []model.Product{in}})

		assert.Equal(t, in, out.Products[0])
		assert.Equal(t, 0, report.Total())
		assert.Empty(t, ops)
	})
}

func TestStandardizer_Sales(t *testing.T) {
	s := NewStandardizer(zap.NewNop(), fixedClock())
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	t.Run("Should clamp future dates to today", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Sales: []model.Sale{{
				SaleID: 1, CustomerID: 1, ProductID: 10, Quantity: 1,
				UnitPrice: 10, TotalValue: 10,
				SaleDate: time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
				Status:   model.StatusCompleted,
			}},
		})

		assert.True(t, out.Sales[0].SaleDate.Equal(today))
		assert.Equal(t, 1, report.FutureDateClamps)
	})

	t.Run("Should keep today's date unclamped", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Sales: []model.Sale{{
				SaleID: 1, CustomerID: 1, ProductID: 10, Quantity: 1,
				UnitPrice: 10, TotalValue: 10,
				SaleDate: today,
				Status:   model.StatusCompleted,
			}},
		})

		assert.True(t, out.Sales[0].SaleDate.Equal(today))
		assert.Equal(t, 0, report.FutureDateClamps)
	})

	t.Run("Should keep sales with missing dates and count them", func(t *testing.T) {
		out, report, ops := s.Run(&model.Batches{
			Sales: []model.Sale{{
				SaleID: 2, CustomerID: 1, ProductID: 10, Quantity: 1,
				UnitPrice: 10, TotalValue: 10,
				Status: model.StatusPending,
			}},
		})

		require.Len(t, out.Sales, 1)
		assert.False(t, out.Sales[0].HasDate())
		assert.Equal(t, 1, report.UnparsableDates)

		// The row is unchanged: an observation, not a correction.
		assert.Empty(t, ops)
		assert.Equal(t, 0, report.Total())
	})

	t.Run("Should correct zero quantity to one", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Sales: []model.Sale{{
				SaleID: 3, CustomerID: 1, ProductID: 10, Quantity: 0,
				UnitPrice: 10, TotalValue: 10,
				SaleDate: today, Status: model.StatusCompleted,
			}},
		})

		assert.Equal(t, int64(1), out.Sales[0].Quantity)
		assert.Equal(t, 1, report.QuantityCorrections)
	})

	t.Run("Should not touch negative quantities", func(t *testing.T) {
		out, report, _ := s.Run(&model.Batches{
			Sales: []model.Sale{{
				SaleID: 4, CustomerID: 1, ProductID: 10, Quantity: -2,
				UnitPrice: 10, TotalValue: -20,
				SaleDate: today, Status: model.StatusCancelled,
			}},
		})

		assert.Equal(t, int64(-2), out.Sales[0].Quantity)
		assert.Equal(t, 0, report.QuantityCorrections)
	})
}

func TestStandardizer_PreservesOrderAndCounts(t *testing.T) {
	s := NewStandardizer(zap.NewNop(), fixedClock())

	t.Run("Should never remove rows and keep input order", func(t *testing.T) {
		in := &model.Batches{
			Customers: []model.Customer{
				{CustomerID: 3, Name: "C", Email: "c@c.com", State: "RJ"},
				{CustomerID: 1, Name: "", Email: "a@a.com", State: "SP"},
				{CustomerID: 2, Name: "B", Email: "b@b.com", State: "MG"},
			},
		}

		out, _, _ := s.Run(in)

		require.Len(t, out.Customers, 3)
		assert.Equal(t, int64(3), out.Customers[0].CustomerID)
		assert.Equal(t, int64(1), out.Customers[1].CustomerID)
		assert.Equal(t, int64(2), out.Customers[2].CustomerID)
	})

	t.Run("Should not mutate the input batch", func(t *testing.T) {
		in := &model.Batches{
			Products: []model.Product{{ProductID: 1, ProductName: "", Price: -1, Category: "Books"}},
		}

		_, _, _ = s.Run(in)

		assert.Equal(t, "", in.Products[0].ProductName)
		assert.Equal(t, -1.0, in.Products[0].Price)
	})
}

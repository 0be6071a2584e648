// pkg/source/csv.go
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/techcommerce/data-quality/pkg/config"
	"github.com/techcommerce/data-quality/pkg/model"
	"github.com/techcommerce/data-quality/pkg/schema"
)

// CSVSource loads the three batches from CSV files. Headers are checked
// strictly against the declared column sets; cell values are coerced
// leniently, with unparsable values mapped to missing markers for the
// standardizer to handle.
type CSVSource struct {
	cfg    config.CSVConfig
	logger *zap.Logger
}

// NewCSVSource creates a CSV source for the configured file paths.
func NewCSVSource(cfg config.CSVConfig, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		cfg:    cfg,
		logger: logger,
	}
}

// Load reads all three CSV files concurrently. Failures are independent
// per table and combined, so one report names every broken file.
func (s *CSVSource) Load(ctx context.Context) (*model.Batches, error) {
	batches := &model.Batches{}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	loaders := []func() error{
		func() error {
			customers, err := s.loadCustomers()
			if err != nil {
				return err
			}
			batches.Customers = customers
			return nil
		},
		func() error {
			products, err := s.loadProducts()
			if err != nil {
				return err
			}
			batches.Products = products
			return nil
		},
		func() error {
			sales, err := s.loadSales()
			if err != nil {
				return err
			}
			batches.Sales = sales
			return nil
		},
	}

	for _, load := range loaders {
		wg.Add(1)
		go func(load func() error) {
			defer wg.Done()
			if err := load(); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(load)
	}
	wg.Wait()

	if errs != nil {
		return nil, errs
	}

	s.logger.Info("Loaded CSV batches",
		zap.Int("customers", len(batches.Customers)),
		zap.Int("products", len(batches.Products)),
		zap.Int("sales", len(batches.Sales)))

	return batches, nil
}

// Close implements Source; file handles are not held between loads.
func (s *CSVSource) Close() error {
	return nil
}

func (s *CSVSource) loadCustomers() ([]model.Customer, error) {
	rows, idx, err := readTable(s.cfg.CustomersPath, "customers", schema.CustomerColumns)
	if err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, model.Customer{
			CustomerID: toInt64(row[idx["customer_id"]]),
			Name:       strings.TrimSpace(row[idx["name"]]),
			Email:      strings.TrimSpace(row[idx["email"]]),
			State:      strings.TrimSpace(row[idx["state"]]),
		})
	}
	return customers, nil
}

func (s *CSVSource) loadProducts() ([]model.Product, error) {
	rows, idx, err := readTable(s.cfg.ProductsPath, "products", schema.ProductColumns)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, model.Product{
			ProductID:   toInt64(row[idx["product_id"]]),
			ProductName: strings.TrimSpace(row[idx["product_name"]]),
			Price:       toFloat64(row[idx["price"]]),
			Category:    strings.TrimSpace(row[idx["category"]]),
		})
	}
	return products, nil
}

func (s *CSVSource) loadSales() ([]model.Sale, error) {
	rows, idx, err := readTable(s.cfg.SalesPath, "sales", schema.SaleColumns)
	if err != nil {
		return nil, err
	}

	sales := make([]model.Sale, 0, len(rows))
	for _, row := range rows {
		sale := model.Sale{
			SaleID:     toInt64(row[idx["sale_id"]]),
			CustomerID: toInt64(row[idx["customer_id"]]),
			ProductID:  toInt64(row[idx["product_id"]]),
			Quantity:   toInt64(row[idx["quantity"]]),
			UnitPrice:  toFloat64(row[idx["unit_price"]]),
			TotalValue: toFloat64(row[idx["total_value"]]),
			Status:     strings.TrimSpace(row[idx["status"]]),
		}
		if date, ok := parseDate(row[idx["sale_date"]]); ok {
			sale.SaleDate = date
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// readTable reads a CSV file, validates its header against the declared
// column set, and returns the data rows plus a column index map.
func readTable(path, table string, columns []string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s file: %w", table, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s header: %w", table, err)
	}

	if err := schema.ValidateHeader(table, header, columns); err != nil {
		return nil, nil, err
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s row: %w", table, err)
		}
		rows = append(rows, record)
	}

	return rows, idx, nil
}

// toInt64 coerces a cell to int64; empty or unparsable cells become 0,
// which the standardizer treats as a missing marker.
func toInt64(value string) int64 {
	v, err := cast.ToInt64E(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return v
}

// toFloat64 coerces a cell to float64; empty or unparsable cells become 0.
func toFloat64(value string) float64 {
	v, err := cast.ToFloat64E(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return v
}

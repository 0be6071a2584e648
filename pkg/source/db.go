// pkg/source/db.go
package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/techcommerce/data-quality/pkg/model"
)

// Row scan targets shared by the database-backed sources. Nullable
// columns scan into sql.Null* and convert to the pipeline's missing
// markers, so dirty source rows load instead of failing.

type customerRow struct {
	CustomerID sql.NullInt64  `db:"customer_id"`
	Name       sql.NullString `db:"name"`
	Email      sql.NullString `db:"email"`
	State      sql.NullString `db:"state"`
}

type productRow struct {
	ProductID   sql.NullInt64   `db:"product_id"`
	ProductName sql.NullString  `db:"product_name"`
	Price       sql.NullFloat64 `db:"price"`
	Category    sql.NullString  `db:"category"`
}

type saleRow struct {
	SaleID     sql.NullInt64   `db:"sale_id"`
	CustomerID sql.NullInt64   `db:"customer_id"`
	ProductID  sql.NullInt64   `db:"product_id"`
	Quantity   sql.NullInt64   `db:"quantity"`
	UnitPrice  sql.NullFloat64 `db:"unit_price"`
	TotalValue sql.NullFloat64 `db:"total_value"`
	SaleDate   sql.NullTime    `db:"sale_date"`
	Status     sql.NullString  `db:"status"`
}

const (
	customersQuery = `SELECT customer_id, name, email, state FROM customers`
	productsQuery  = `SELECT product_id, product_name, price, category FROM products`
	salesQuery     = `SELECT sale_id, customer_id, product_id, quantity,
		unit_price, total_value, sale_date, status FROM sales`
)

// loadBatches reads all three tables from a database connection. Row
// order follows the source's natural order, which the keep-first dedup
// rule then relies on.
func loadBatches(ctx context.Context, db *sqlx.DB, queryTimeout time.Duration) (*model.Batches, error) {
	queryCtx := ctx
	if queryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, queryTimeout)
		defer cancel()
	}

	var customerRows []customerRow
	if err := db.SelectContext(queryCtx, &customerRows, customersQuery); err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}

	var productRows []productRow
	if err := db.SelectContext(queryCtx, &productRows, productsQuery); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var saleRows []saleRow
	if err := db.SelectContext(queryCtx, &saleRows, salesQuery); err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}

	batches := &model.Batches{
		Customers: make([]model.Customer, len(customerRows)),
		Products:  make([]model.Product, len(productRows)),
		Sales:     make([]model.Sale, len(saleRows)),
	}

	for i, row := range customerRows {
		batches.Customers[i] = model.Customer{
			CustomerID: row.CustomerID.Int64,
			Name:       row.Name.String,
			Email:      row.Email.String,
			State:      row.State.String,
		}
	}
	for i, row := range productRows {
		batches.Products[i] = model.Product{
			ProductID:   row.ProductID.Int64,
			ProductName: row.ProductName.String,
			Price:       row.Price.Float64,
			Category:    row.Category.String,
		}
	}
	for i, row := range saleRows {
		sale := model.Sale{
			SaleID:     row.SaleID.Int64,
			CustomerID: row.CustomerID.Int64,
			ProductID:  row.ProductID.Int64,
			Quantity:   row.Quantity.Int64,
			UnitPrice:  row.UnitPrice.Float64,
			TotalValue: row.TotalValue.Float64,
			Status:     row.Status.String,
		}
		if row.SaleDate.Valid {
			sale.SaleDate = row.SaleDate.Time
		}
		batches.Sales[i] = sale
	}

	return batches, nil
}

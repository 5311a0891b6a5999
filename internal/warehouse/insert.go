//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	locationCopyColumns = []string{"location_id", "country", "city", "state", "postal_code", "region", "loaded_at"}
	customerCopyColumns = []string{"customer_id", "customer_name", "segment", "clv", "customer_lifetime_value", "loaded_at"}
	dateCopyColumns     = []string{"order_date", "year", "quarter", "month", "week", "weekday", "weekend_flag", "loaded_at"}
	factCopyColumns     = []string{
		"order_id", "order_date", "customer_id", "location_id", "product_id",
		"sales", "quantity", "discount", "profit", "profit_margin", "price_bucket",
		"discount_impact", "delivery_days", "delivery_status", "loaded_at",
	}
)

const upsertCustomerSQL = `
INSERT INTO dim_customer (customer_id, customer_name, segment, clv, customer_lifetime_value, loaded_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (customer_id) DO UPDATE
SET customer_name = EXCLUDED.customer_name,
    segment = EXCLUDED.segment,
    clv = EXCLUDED.clv,
    customer_lifetime_value = EXCLUDED.customer_lifetime_value,
    loaded_at = EXCLUDED.loaded_at`

const upsertDateSQL = `
INSERT INTO dim_date (order_date, year, quarter, month, week, weekday, weekend_flag, loaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (order_date) DO UPDATE
SET year = EXCLUDED.year,
    quarter = EXCLUDED.quarter,
    month = EXCLUDED.month,
    week = EXCLUDED.week,
    weekday = EXCLUDED.weekday,
    weekend_flag = EXCLUDED.weekend_flag,
    loaded_at = EXCLUDED.loaded_at`

const upsertProductSQL = `
INSERT INTO dim_product (product_id, category, sub_category, product_name, loaded_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (product_id) DO UPDATE
SET category = EXCLUDED.category,
    sub_category = EXCLUDED.sub_category,
    product_name = EXCLUDED.product_name,
    loaded_at = EXCLUDED.loaded_at`

// writer inserts star rows within one transaction, stamping every row with
// the same loaded_at.
type writer struct {
	tx        pgx.Tx
	loadedAt  time.Time
	batchSize int
}

func (w *writer) copy(ctx context.Context, table string, columns []string, n int, row func(i int) []any) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	count, err := w.tx.CopyFrom(ctx, pgx.Identifier{table}, columns,
		pgx.CopyFromSlice(n, func(i int) ([]any, error) {
			return row(i), nil
		}))
	if err != nil {
		return 0, &PersistenceError{Op: "insert", Table: table, Err: err}
	}
	return count, nil
}

// upsert sends one statement per row in batches of w.batchSize.
func (w *writer) upsert(ctx context.Context, table, sql string, n int, args func(i int) []any) (int64, error) {
	var total int64
	for start := 0; start < n; start += w.batchSize {
		end := min(start+w.batchSize, n)

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			batch.Queue(sql, args(i)...)
		}

		br := w.tx.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return total, &PersistenceError{Op: "upsert", Table: table, Err: err}
			}
			total += tag.RowsAffected()
		}
		if err := br.Close(); err != nil {
			return total, &PersistenceError{Op: "upsert", Table: table, Err: err}
		}
	}
	return total, nil
}

func (w *writer) locations(ctx context.Context, s *Star) (int64, error) {
	return w.copy(ctx, TableLocation, locationCopyColumns, len(s.Locations), func(i int) []any {
		l := s.Locations[i]
		return []any{l.LocationID, l.Country, l.City, l.State, l.PostalCode, l.Region, w.loadedAt}
	})
}

func (w *writer) customers(ctx context.Context, s *Star, upsert bool) (int64, error) {
	args := func(i int) []any {
		c := s.Customers[i]
		return []any{c.CustomerID, c.CustomerName, c.Segment, c.CLV, c.Tier, w.loadedAt}
	}
	if upsert {
		return w.upsert(ctx, TableCustomer, upsertCustomerSQL, len(s.Customers), args)
	}
	return w.copy(ctx, TableCustomer, customerCopyColumns, len(s.Customers), args)
}

func (w *writer) dates(ctx context.Context, s *Star, upsert bool) (int64, error) {
	args := func(i int) []any {
		d := s.Dates[i]
		return []any{d.OrderDate, d.Year, d.Quarter, d.Month, d.Week, d.Weekday, d.WeekendFlag, w.loadedAt}
	}
	if upsert {
		return w.upsert(ctx, TableDate, upsertDateSQL, len(s.Dates), args)
	}
	return w.copy(ctx, TableDate, dateCopyColumns, len(s.Dates), args)
}

func (w *writer) products(ctx context.Context, s *Star) (int64, error) {
	return w.upsert(ctx, TableProduct, upsertProductSQL, len(s.Products), func(i int) []any {
		p := s.Products[i]
		return []any{p.ProductID, p.Category, p.SubCategory, p.ProductName, w.loadedAt}
	})
}

func (w *writer) facts(ctx context.Context, s *Star) (int64, error) {
	return w.copy(ctx, TableFact, factCopyColumns, len(s.Facts), func(i int) []any {
		f := s.Facts[i]
		return []any{
			f.OrderID, f.OrderDate, f.CustomerID, f.LocationID, f.ProductID,
			f.Sales, f.Quantity, f.Discount, f.Profit, f.ProfitMargin, f.PriceBucket,
			f.DiscountImpact, f.DeliveryDays, f.DeliveryStatus, w.loadedAt,
		}
	})
}

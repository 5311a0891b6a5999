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

	"github.com/pgEdge/pgedge-superstore/internal/db"
	"github.com/pgEdge/pgedge-superstore/internal/logging"
)

// Table names.
const (
	TableLocation = "dim_location"
	TableCustomer = "dim_customer"
	TableDate     = "dim_date"
	TableProduct  = "dim_product"
	TableFact     = "fact_order"
)

// Tables lists the star schema tables in load order.
var Tables = []string{TableLocation, TableCustomer, TableDate, TableProduct, TableFact}

type tableDDL struct {
	name string
	sql  string
}

// schema is created in dependency order. Statements never drop or alter
// existing tables.
var schema = []tableDDL{
	{TableLocation, `
CREATE TABLE IF NOT EXISTS dim_location (
    location_id INTEGER PRIMARY KEY,
    country     TEXT,
    city        TEXT,
    state       TEXT,
    postal_code TEXT,
    region      TEXT,
    loaded_at   TIMESTAMP
)`},
	{TableCustomer, `
CREATE TABLE IF NOT EXISTS dim_customer (
    customer_id             TEXT PRIMARY KEY,
    customer_name           TEXT,
    segment                 TEXT,
    clv                     NUMERIC,
    customer_lifetime_value TEXT,
    loaded_at               TIMESTAMP
)`},
	{TableDate, `
CREATE TABLE IF NOT EXISTS dim_date (
    order_date   DATE PRIMARY KEY,
    year         INTEGER,
    quarter      INTEGER,
    month        INTEGER,
    week         INTEGER,
    weekday      TEXT,
    weekend_flag BOOLEAN,
    loaded_at    TIMESTAMP
)`},
	{TableProduct, `
CREATE TABLE IF NOT EXISTS dim_product (
    product_id   TEXT PRIMARY KEY,
    category     TEXT,
    sub_category TEXT,
    product_name TEXT,
    loaded_at    TIMESTAMP
)`},
	{TableFact, `
CREATE TABLE IF NOT EXISTS fact_order (
    row_id          SERIAL PRIMARY KEY,
    order_id        TEXT,
    order_date      DATE REFERENCES dim_date(order_date),
    customer_id     TEXT REFERENCES dim_customer(customer_id),
    location_id     INTEGER REFERENCES dim_location(location_id),
    product_id      TEXT REFERENCES dim_product(product_id),
    sales           NUMERIC,
    quantity        INTEGER,
    discount        NUMERIC,
    profit          NUMERIC,
    profit_margin   INTEGER,
    price_bucket    TEXT,
    discount_impact NUMERIC,
    delivery_days   NUMERIC,
    delivery_status TEXT,
    loaded_at       TIMESTAMP
)`},
	{db.MetadataTable, db.CreateMetadataTableSQL},
}

// CreateSchema creates every table that does not exist yet.
func CreateSchema(ctx context.Context, conn db.Execer) error {
	for _, t := range schema {
		if _, err := conn.Exec(ctx, t.sql); err != nil {
			return &PersistenceError{Op: "create", Table: t.name, Err: err}
		}
	}
	logging.Debug().Int("tables", len(schema)).Msg("Schema ready")
	return nil
}

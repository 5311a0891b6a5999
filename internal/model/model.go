//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model defines the star-schema row types shared by the transform
// and warehouse stages.
package model

import (
	"time"
)

// Customer value tiers.
const (
	TierLow    = "Low"
	TierMedium = "Medium"
	TierHigh   = "High"
)

// Price buckets, keyed on profit margin.
const (
	BucketLoss     = "Loss"
	BucketLow      = "Low"
	BucketModerate = "Moderate"
	BucketHigh     = "High"
)

// Delivery statuses.
const (
	StatusLate   = "Late"
	StatusOnTime = "On-Time"
)

// DateRow is one row of dim_date.
type DateRow struct {
	OrderDate   time.Time `csv:"order_date"`
	Year        int       `csv:"year"`
	Quarter     int       `csv:"quarter"`
	Month       int       `csv:"month"`
	Week        int       `csv:"week"`
	Weekday     string    `csv:"weekday"`
	WeekendFlag bool      `csv:"weekend_flag"`
}

// CustomerValue is the per-customer aggregate of sales and profit.
type CustomerValue struct {
	CustomerID string  `csv:"customer_id"`
	Sales      float64 `csv:"sales"`
	Profit     float64 `csv:"profit"`
	CLV        float64 `csv:"clv"`
	// Tier is the customer_lifetime_value tertile label.
	Tier string `csv:"customer_lifetime_value"`
}

// ProductRow is one row of dim_product.
type ProductRow struct {
	ProductID   string
	Category    *string
	SubCategory *string
	ProductName *string
}

// LocationRow is one row of dim_location.
type LocationRow struct {
	LocationID int64
	Country    *string
	City       *string
	State      *string
	PostalCode *string
	Region     *string
}

// CustomerRow is one row of dim_customer.
type CustomerRow struct {
	CustomerID   string
	CustomerName *string
	Segment      *string
	CLV          float64
	Tier         string
}

// FactRow is one row of fact_order, without the surrogate row_id.
type FactRow struct {
	OrderID        *string
	OrderDate      *time.Time
	CustomerID     string
	LocationID     int64
	ProductID      string
	Sales          *float64
	Quantity       *int64
	Discount       *float64
	Profit         *float64
	ProfitMargin   *int64
	PriceBucket    *string
	DiscountImpact *float64
	DeliveryDays   *int64
	DeliveryStatus *string
}

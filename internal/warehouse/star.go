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
	"math"
	"time"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/model"
)

// Input is the transform output handed to the loader.
type Input struct {
	Facts     *frame.Frame
	Dates     []model.DateRow
	Customers []model.CustomerValue
	Products  []model.ProductRow

	// Source names the extracted input and is recorded in run metadata.
	Source string
}

// Star is the fully resolved set of rows to persist.
type Star struct {
	Locations []model.LocationRow
	Customers []model.CustomerRow
	Dates     []model.DateRow
	Products  []model.ProductRow
	Facts     []model.FactRow
}

// locationColumns form the natural key of dim_location.
var locationColumns = []string{"country", "city", "state", "postal_code", "region"}

// factColumns are the fact frame columns persisted to fact_order. The
// location columns stand in for location_id when de-duplicating.
var factColumns = []string{
	"order_id", "order_date", "customer_id",
	"country", "city", "state", "postal_code", "region",
	"product_id", "sales", "quantity", "discount", "profit",
	"profit_margin", "price_bucket", "discount_impact",
	"delivery_days", "delivery_status",
}

// requiredFactColumns must be present in the fact frame. Other fact columns
// load as NULL when absent.
var requiredFactColumns = []string{
	"order_date", "customer_id", "product_id", "sales", "discount", "profit",
	"profit_margin", "price_bucket", "discount_impact",
	"delivery_days", "delivery_status",
}

// numericFactColumns must hold numbers when present.
var numericFactColumns = []string{
	"sales", "quantity", "discount", "profit",
	"profit_margin", "discount_impact", "delivery_days",
}

// BuildStar derives dim_location and dim_customer, resolves every fact row
// against the dimensions and de-duplicates the facts. Unresolved joins are
// returned as gaps rather than dropped; the returned Star is only complete
// when there are none.
func BuildStar(in Input) (*Star, []IntegrityGap, error) {
	f := in.Facts
	if f == nil {
		return nil, nil, &model.DataShapeError{Reason: "no fact rows"}
	}
	if err := model.MissingColumns(f.Has, requiredFactColumns); err != nil {
		return nil, nil, err
	}
	var notNumeric []string
	for _, name := range numericFactColumns {
		if c := f.Column(name); c != nil && c.Kind != frame.KindNumber {
			notNumeric = append(notNumeric, name)
		}
	}
	if len(notNumeric) > 0 {
		return nil, nil, &model.DataShapeError{Columns: notNumeric, Reason: "fact columns are not numeric"}
	}

	star := &Star{Products: in.Products}
	locationIDs := star.buildLocations(f)
	star.buildCustomers(f, in.Customers)
	dateKeys := star.buildDates(in.Dates)

	customerKeys := make(map[string]bool, len(star.Customers))
	for _, c := range star.Customers {
		customerKeys[c.CustomerID] = true
	}
	productKeys := make(map[string]bool, len(star.Products))
	for _, p := range star.Products {
		productKeys[p.ProductID] = true
	}

	var gaps []IntegrityGap
	seen := make(map[string]bool, f.Len())
	for r := 0; r < f.Len(); r++ {
		orderID, _ := frame.Text(f.Value(r, "order_id"))
		gap := func(dim, key string) {
			gaps = append(gaps, IntegrityGap{Row: r, OrderID: orderID, Dimension: dim, Key: key})
		}

		locationID, ok := locationIDs[f.RowKey(r, locationColumns...)]
		if !ok {
			gap(TableLocation, "")
		}
		customerID, ok := frame.Text(f.Value(r, "customer_id"))
		if !ok || !customerKeys[customerID] {
			gap(TableCustomer, customerID)
		}
		productID, ok := frame.Text(f.Value(r, "product_id"))
		if !ok || !productKeys[productID] {
			gap(TableProduct, productID)
		}
		orderDate, ok := frame.Date(f.Value(r, "order_date"))
		if !ok {
			gap(TableDate, "")
		} else if !dateKeys[orderDate.Format(frame.DateLayout)] {
			gap(TableDate, orderDate.Format(frame.DateLayout))
		}

		key := f.RowKey(r, factColumns...)
		if seen[key] {
			continue
		}
		seen[key] = true

		star.Facts = append(star.Facts, model.FactRow{
			OrderID:        frame.TextPtr(f.Value(r, "order_id")),
			OrderDate:      datePtr(f.Value(r, "order_date")),
			CustomerID:     customerID,
			LocationID:     locationID,
			ProductID:      productID,
			Sales:          floatPtr(f.Value(r, "sales")),
			Quantity:       intPtr(f.Value(r, "quantity")),
			Discount:       floatPtr(f.Value(r, "discount")),
			Profit:         floatPtr(f.Value(r, "profit")),
			ProfitMargin:   intPtr(f.Value(r, "profit_margin")),
			PriceBucket:    frame.TextPtr(f.Value(r, "price_bucket")),
			DiscountImpact: floatPtr(f.Value(r, "discount_impact")),
			DeliveryDays:   intPtr(f.Value(r, "delivery_days")),
			DeliveryStatus: frame.TextPtr(f.Value(r, "delivery_status")),
		})
	}

	return star, gaps, nil
}

// buildLocations extracts distinct location tuples in first-seen order and
// numbers them from 1. Missing parts are part of the tuple.
func (s *Star) buildLocations(f *frame.Frame) map[string]int64 {
	ids := make(map[string]int64)
	for r := 0; r < f.Len(); r++ {
		key := f.RowKey(r, locationColumns...)
		if _, ok := ids[key]; ok {
			continue
		}
		id := int64(len(s.Locations) + 1)
		ids[key] = id
		s.Locations = append(s.Locations, model.LocationRow{
			LocationID: id,
			Country:    frame.TextPtr(f.Value(r, "country")),
			City:       frame.TextPtr(f.Value(r, "city")),
			State:      frame.TextPtr(f.Value(r, "state")),
			PostalCode: frame.TextPtr(f.Value(r, "postal_code")),
			Region:     frame.TextPtr(f.Value(r, "region")),
		})
	}
	return ids
}

// buildCustomers joins customer values with the first-seen name and segment
// of each customer.
func (s *Star) buildCustomers(f *frame.Frame, values []model.CustomerValue) {
	firstRow := make(map[string]int)
	for r := 0; r < f.Len(); r++ {
		id, ok := frame.Text(f.Value(r, "customer_id"))
		if !ok {
			continue
		}
		if _, seen := firstRow[id]; !seen {
			firstRow[id] = r
		}
	}

	s.Customers = make([]model.CustomerRow, 0, len(values))
	for _, v := range values {
		row := model.CustomerRow{CustomerID: v.CustomerID, CLV: v.CLV, Tier: v.Tier}
		if r, ok := firstRow[v.CustomerID]; ok {
			row.CustomerName = frame.TextPtr(f.Value(r, "customer_name"))
			row.Segment = frame.TextPtr(f.Value(r, "segment"))
		}
		s.Customers = append(s.Customers, row)
	}
}

// buildDates keeps one date row per calendar day, the first given.
func (s *Star) buildDates(dates []model.DateRow) map[string]bool {
	keys := make(map[string]bool, len(dates))
	for _, d := range dates {
		k := d.OrderDate.Format(frame.DateLayout)
		if keys[k] {
			continue
		}
		keys[k] = true
		s.Dates = append(s.Dates, d)
	}
	return keys
}

func floatPtr(v any) *float64 {
	x, ok := frame.Number(v)
	if !ok {
		return nil
	}
	return &x
}

func intPtr(v any) *int64 {
	x, ok := frame.Number(v)
	if !ok || math.IsInf(x, 0) {
		return nil
	}
	n := int64(math.Round(x))
	return &n
}

func datePtr(v any) *time.Time {
	t, ok := frame.Date(v)
	if !ok {
		return nil
	}
	return &t
}

//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/model"
)

// lateAfterDays is the longest delivery still considered on time.
const lateAfterDays = 5

// titleCaseColumns are title-cased when present.
var titleCaseColumns = []string{
	"ship_mode", "customer_name", "segment", "country", "city",
	"state", "region", "category", "sub_category",
}

// DeliveryDays returns the whole number of days from order to ship,
// rounded toward negative infinity.
func DeliveryDays(order, ship time.Time) int64 {
	const day = 24 * time.Hour
	d := ship.Sub(order)
	days := d / day
	if d%day < 0 {
		days--
	}
	return int64(days)
}

// DeliveryStatus classifies a delivery duration.
func DeliveryStatus(days int64) string {
	if days > lateAfterDays {
		return model.StatusLate
	}
	return model.StatusOnTime
}

// ProfitMargin returns profit/sales*100 rounded half to even. The second
// result is false when the ratio is undefined.
func ProfitMargin(profit, sales float64) (float64, bool) {
	ratio := profit / sales * 100
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, false
	}
	return roundBank(ratio, 0), true
}

// DiscountImpact returns sales*discount rounded half to even at 2 places.
func DiscountImpact(sales, discount float64) float64 {
	return roundBank(sales*discount, 2)
}

// PriceBucket maps a profit margin onto the right-closed bins
// (-inf, 0], (0, 10], (10, 30], (30, inf).
func PriceBucket(margin float64) string {
	switch {
	case margin <= 0:
		return model.BucketLoss
	case margin <= 10:
		return model.BucketLow
	case margin <= 30:
		return model.BucketModerate
	default:
		return model.BucketHigh
	}
}

func roundBank(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).RoundBank(places).Float64()
	return f
}

// TitleCase upper-cases every cased letter that follows an uncased
// character and lower-cases the rest. It is idempotent.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		if cased {
			if prevCased {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
		}
		prevCased = cased
		b.WriteRune(r)
	}
	return b.String()
}

// addDerived appends delivery_days, delivery_status, profit_margin,
// discount_impact and price_bucket.
func addDerived(f *frame.Frame) error {
	n := f.Len()
	orders, ships := f.Column("order_date"), f.Column("ship_date")
	sales, profit, discount := f.Column("sales"), f.Column("profit"), f.Column("discount")

	days := make([]any, n)
	status := make([]any, n)
	margin := make([]any, n)
	impact := make([]any, n)
	bucket := make([]any, n)

	for r := 0; r < n; r++ {
		o, okO := frame.Date(orders.Values[r])
		s, okS := frame.Date(ships.Values[r])
		if okO && okS {
			d := DeliveryDays(o, s)
			days[r] = float64(d)
			status[r] = DeliveryStatus(d)
		}

		sv, okSales := frame.Number(sales.Values[r])
		pv, okProfit := frame.Number(profit.Values[r])
		if okSales && okProfit {
			if m, ok := ProfitMargin(pv, sv); ok {
				margin[r] = m
				bucket[r] = PriceBucket(m)
			}
		}

		if dv, okDiscount := frame.Number(discount.Values[r]); okSales && okDiscount {
			impact[r] = DiscountImpact(sv, dv)
		}
	}

	for _, c := range []*frame.Column{
		{Name: "delivery_days", Kind: frame.KindNumber, Values: days},
		{Name: "delivery_status", Kind: frame.KindText, Values: status},
		{Name: "profit_margin", Kind: frame.KindNumber, Values: margin},
		{Name: "discount_impact", Kind: frame.KindNumber, Values: impact},
		{Name: "price_bucket", Kind: frame.KindText, Values: bucket},
	} {
		if f.Has(c.Name) {
			f.Drop(c.Name)
		}
		if err := f.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// titleCase applies TitleCase to the categorical text columns. Numeric
// cells are rendered to text first; missing cells stay missing.
func titleCase(f *frame.Frame) {
	for _, name := range titleCaseColumns {
		c := f.Column(name)
		if c == nil {
			continue
		}
		for i, v := range c.Values {
			if s, ok := frame.Text(v); ok {
				c.Values[i] = TitleCase(s)
			}
		}
		c.Kind = frame.KindText
	}
}

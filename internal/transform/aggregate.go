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
	"sort"
	"time"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/model"
)

// group is the set of row indexes sharing one key, in row order.
type group struct {
	key  any
	rows []int
}

// groupBy groups rows on a column, skipping missing keys. Groups are
// sorted by key.
func groupBy(f *frame.Frame, name string) []*group {
	c := f.Column(name)
	byKey := make(map[string]*group)
	var groups []*group
	for r, v := range c.Values {
		if v == nil {
			continue
		}
		k := frame.Key(v)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: v}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return frame.Compare(groups[i].key, groups[j].key) < 0
	})
	return groups
}

// aggregateCustomers sums sales and profit per customer and assigns a
// lifetime value tier.
func aggregateCustomers(f *frame.Frame) []model.CustomerValue {
	sales, profit := f.Column("sales"), f.Column("profit")
	groups := groupBy(f, "customer_id")

	out := make([]model.CustomerValue, len(groups))
	clv := make([]float64, len(groups))
	for i, g := range groups {
		var s, p float64
		for _, r := range g.rows {
			if x, ok := frame.Number(sales.Values[r]); ok {
				s += x
			}
			if x, ok := frame.Number(profit.Values[r]); ok {
				p += x
			}
		}
		id, _ := frame.Text(g.key)
		out[i] = model.CustomerValue{CustomerID: id, Sales: s, Profit: p, CLV: s + p}
		clv[i] = s + p
	}

	for i, tier := range Tertiles(clv) {
		out[i].Tier = tier
	}
	return out
}

var tierLabels = [3]string{model.TierLow, model.TierMedium, model.TierHigh}

// Tertiles labels each value Low, Medium or High by an equal-frequency
// cut into three bins. Edges are the linearly interpolated 0, 1/3, 2/3 and
// 1 quantiles; bins are right-closed and the lowest edge is included.
// When edges coincide the cut is taken over first-occurrence ranks
// instead, so tied values may land in different bins.
func Tertiles(values []float64) []string {
	labels := make([]string, len(values))
	switch len(values) {
	case 0:
		return labels
	case 1:
		labels[0] = model.TierLow
		return labels
	}

	keys := values
	edges := quantileEdges(values)
	if !strictlyIncreasing(edges) {
		keys = firstRanks(values)
		edges = quantileEdges(keys)
	}

	for i, v := range keys {
		labels[i] = tierLabels[2]
		for b := 0; b < 3; b++ {
			if v <= edges[b+1] {
				labels[i] = tierLabels[b]
				break
			}
		}
	}
	return labels
}

func quantileEdges(values []float64) [4]float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var edges [4]float64
	for i := range edges {
		edges[i] = quantile(sorted, float64(i)/3)
	}
	return edges
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func strictlyIncreasing(edges [4]float64) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return false
		}
	}
	return true
}

// firstRanks ranks values 1..n, ties broken by position.
func firstRanks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	ranks := make([]float64, len(values))
	for rank, i := range idx {
		ranks[i] = float64(rank + 1)
	}
	return ranks
}

// aggregateProducts builds dim_product. category and sub_category take the
// first non-missing value; product_name the most frequent, ties to the
// first encountered.
func aggregateProducts(f *frame.Frame) []model.ProductRow {
	groups := groupBy(f, "product_id")
	out := make([]model.ProductRow, len(groups))
	for i, g := range groups {
		id, _ := frame.Text(g.key)
		out[i] = model.ProductRow{
			ProductID:   id,
			Category:    firstValue(f, "category", g.rows),
			SubCategory: firstValue(f, "sub_category", g.rows),
			ProductName: mostFrequent(f, "product_name", g.rows),
		}
	}
	return out
}

func firstValue(f *frame.Frame, name string, rows []int) *string {
	c := f.Column(name)
	if c == nil {
		return nil
	}
	for _, r := range rows {
		if c.Values[r] != nil {
			return frame.TextPtr(c.Values[r])
		}
	}
	return nil
}

// mostFrequent returns the modal non-missing value; ties resolve to the
// value encountered first.
func mostFrequent(f *frame.Frame, name string, rows []int) *string {
	c := f.Column(name)
	if c == nil {
		return nil
	}
	counts := make(map[string]int)
	var order []any
	for _, r := range rows {
		v := c.Values[r]
		if v == nil {
			continue
		}
		k := frame.Key(v)
		if counts[k] == 0 {
			order = append(order, v)
		}
		counts[k]++
	}

	var best any
	bestCount := 0
	for _, v := range order {
		if n := counts[frame.Key(v)]; n > bestCount {
			best, bestCount = v, n
		}
	}
	return frame.TextPtr(best)
}

// buildDates builds dim_date from the distinct order dates, in first-seen
// order.
func buildDates(f *frame.Frame) []model.DateRow {
	c := f.Column("order_date")
	seen := make(map[string]struct{})
	var out []model.DateRow
	for _, v := range c.Values {
		t, ok := frame.Date(v)
		if !ok {
			continue
		}
		k := frame.Key(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, NewDateRow(t))
	}
	return out
}

// NewDateRow derives the calendar attributes of a date.
func NewDateRow(t time.Time) model.DateRow {
	_, week := t.ISOWeek()
	wd := t.Weekday()
	return model.DateRow{
		OrderDate:   t,
		Year:        t.Year(),
		Quarter:     (int(t.Month())-1)/3 + 1,
		Month:       int(t.Month()),
		Week:        week,
		Weekday:     wd.String(),
		WeekendFlag: wd == time.Saturday || wd == time.Sunday,
	}
}

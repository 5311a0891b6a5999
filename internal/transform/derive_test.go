//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pgEdge/pgedge-superstore/internal/model"
)

func TestPriceBucketBoundaries(t *testing.T) {
	tests := []struct {
		margin float64
		want   string
	}{
		{-20, model.BucketLoss},
		{0, model.BucketLoss},
		{1, model.BucketLow},
		{10, model.BucketLow},
		{11, model.BucketModerate},
		{30, model.BucketModerate},
		{31, model.BucketHigh},
		{250, model.BucketHigh},
	}
	for _, tt := range tests {
		if got := PriceBucket(tt.margin); got != tt.want {
			t.Errorf("PriceBucket(%v) = %s, want %s", tt.margin, got, tt.want)
		}
	}
}

func TestProfitMargin(t *testing.T) {
	m, ok := ProfitMargin(20, 100)
	assert.True(t, ok)
	assert.Equal(t, 20.0, m)

	// Half to even.
	m, _ = ProfitMargin(1, 8) // 12.5
	assert.Equal(t, 12.0, m)
	m, _ = ProfitMargin(3, 8) // 37.5
	assert.Equal(t, 38.0, m)

	_, ok = ProfitMargin(5, 0)
	assert.False(t, ok)
	_, ok = ProfitMargin(0, 0)
	assert.False(t, ok)
}

func TestDiscountImpact(t *testing.T) {
	assert.Equal(t, 10.0, DiscountImpact(100, 0.1))
	assert.Equal(t, 52.55, DiscountImpact(262.75, 0.2))
	assert.Equal(t, 0.0, DiscountImpact(50, 0))
}

func TestDeliveryDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, int64(7), DeliveryDays(day(1), day(8)))
	assert.Equal(t, int64(0), DeliveryDays(day(1), day(1).Add(23*time.Hour)))
	assert.Equal(t, int64(-1), DeliveryDays(day(2), day(1).Add(12*time.Hour)))

	assert.Equal(t, model.StatusOnTime, DeliveryStatus(5))
	assert.Equal(t, model.StatusLate, DeliveryStatus(6))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"second class", "Second Class"},
		{"NEW YORK CITY", "New York City"},
		{"o'neil", "O'Neil"},
		{"sub-category", "Sub-Category"},
		{"3rd floor", "3Rd Floor"},
		{"42420", "42420"},
		{"Already Clean", "Already Clean"},
		{"", ""},
	}
	for _, tt := range tests {
		got := TitleCase(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got, TitleCase(got), "title-casing must be idempotent for %q", tt.in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" $1,234.50 ", 1234.5, true},
		{"-0.25", -0.25, true},
		{"1e3", 1000, true},
		{"0x10", 0, false},
		{"abc", 0, false},
		{"$", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestTertilesPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{2, 3, 4, 5, 7, 10, 31, 100} {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.Float64()*1000 + float64(i)*1e-6
		}
		labels := Tertiles(values)

		sizes := map[string]int{}
		maxOf := map[string]float64{}
		minOf := map[string]float64{}
		for i, l := range labels {
			sizes[l]++
			if v, ok := maxOf[l]; !ok || values[i] > v {
				maxOf[l] = values[i]
			}
			if v, ok := minOf[l]; !ok || values[i] < v {
				minOf[l] = values[i]
			}
		}

		total := 0
		for _, s := range sizes {
			total += s
		}
		assert.Equal(t, n, total)

		if n >= 3 {
			lo, hi := n, 0
			for _, l := range tierLabels {
				lo = min(lo, sizes[l])
				hi = max(hi, sizes[l])
			}
			assert.LessOrEqual(t, hi-lo, n%3+1, "n=%d sizes=%v", n, sizes)
			assert.Less(t, maxOf[model.TierLow], minOf[model.TierMedium], "n=%d", n)
			assert.Less(t, maxOf[model.TierMedium], minOf[model.TierHigh], "n=%d", n)
		}
	}
}

func TestTertilesTies(t *testing.T) {
	assert.Equal(t, []string{model.TierLow}, Tertiles([]float64{160}))
	assert.Empty(t, Tertiles(nil))

	// Identical values cannot be cut on value; ranks split them.
	labels := Tertiles([]float64{5, 5, 5, 5, 5, 5})
	assert.Equal(t, []string{
		model.TierLow, model.TierLow, model.TierMedium,
		model.TierMedium, model.TierHigh, model.TierHigh,
	}, labels)

	// Distinct edges: boundary values resolve to the lower bin.
	labels = Tertiles([]float64{1, 2, 3, 4})
	assert.Equal(t, []string{model.TierLow, model.TierLow, model.TierMedium, model.TierHigh}, labels)
}

func TestNewDateRow(t *testing.T) {
	sat := NewDateRow(time.Date(2016, 11, 12, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 4, sat.Quarter)
	assert.Equal(t, 45, sat.Week)
	assert.Equal(t, "Saturday", sat.Weekday)
	assert.True(t, sat.WeekendFlag)

	fri := NewDateRow(time.Date(2016, 11, 11, 0, 0, 0, 0, time.UTC))
	assert.False(t, fri.WeekendFlag)
}

//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sample

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-superstore/internal/extract"
	"github.com/pgEdge/pgedge-superstore/internal/transform"
)

func render(t *testing.T, opts Options) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, NewGenerator(opts).WriteCSV(&b))
	return b.String()
}

func TestWriteCSVDeterministic(t *testing.T) {
	a := render(t, Options{Rows: 200, Seed: 7})
	b := render(t, Options{Rows: 200, Seed: 7})
	c := render(t, Options{Rows: 200, Seed: 8})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, strings.Join(Headers, ",")+"\n"))
}

func TestRecords(t *testing.T) {
	g := NewGenerator(Options{Rows: 500, Seed: 3, DuplicateRate: 0.1})
	records := g.Records()
	require.Len(t, records, 550)

	distinct := make(map[string]bool)
	for _, rec := range records {
		require.Len(t, rec, len(Headers))
		assert.Empty(t, rec[colNotes])
		assert.NotEmpty(t, rec[colCustomerID])
		assert.NotEmpty(t, rec[colProductID])
		assert.NotEmpty(t, rec[colOrderDate])
		assert.Equal(t, "United States", rec[colCountry])
		distinct[strings.Join(rec, "\x00")] = true
	}
	assert.Len(t, distinct, 500, "appended rows must be exact copies")
}

func TestRecordsClean(t *testing.T) {
	g := NewGenerator(Options{Rows: 300, Seed: 11, DuplicateRate: -1, MissingRate: -1, CurrencyRate: -1})
	for _, rec := range g.Records() {
		for _, c := range optionalColumns {
			assert.NotContains(t, sentinels[1:], rec[c])
			assert.NotEmpty(t, rec[c])
		}
		assert.False(t, strings.HasPrefix(rec[colSales], "$"))
	}
}

func TestSampleSurvivesTransform(t *testing.T) {
	out := render(t, Options{Rows: 400, Seed: 42, DuplicateRate: 0.05})

	raw, err := extract.ReadCSV(strings.NewReader(out), extract.Options{})
	require.NoError(t, err)
	res, err := transform.Transform(raw)
	require.NoError(t, err)

	assert.Equal(t, 420, res.Report.InputRows)
	assert.Equal(t, 20, res.Report.DuplicateRows)
	assert.Contains(t, res.Report.DroppedColumns, "notes")
	assert.Equal(t, 400, res.Report.OutputRows)
	assert.NotEmpty(t, res.Customers)
	assert.NotEmpty(t, res.Products)
	assert.NotEmpty(t, res.Dates)
}

func TestWriteCSVEncoding(t *testing.T) {
	out := render(t, Options{Rows: 20, Seed: 5, DuplicateRate: -1, Encoding: "windows-1252"})
	raw, err := extract.ReadCSV(strings.NewReader(out), extract.Options{Encoding: "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, 20, raw.Len())

	err = NewGenerator(Options{Rows: 1, Encoding: "ebcdic"}).WriteCSV(&strings.Builder{})
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, NewGenerator(Options{Rows: 10, Seed: 1}).WriteFile(path))

	f, err := extract.ReadFile(path, extract.Options{})
	require.NoError(t, err)
	assert.Len(t, f.Names(), len(Headers))
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5.5, "$5.50"},
		{999.999, "$1,000.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-42.1, "-$42.10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.in), "Currency(%v)", tt.in)
		x, ok := transform.ParseNumber(strings.TrimPrefix(Currency(tt.in), "-"))
		assert.True(t, ok)
		assert.InDelta(t, abs(tt.in), x, 0.005)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

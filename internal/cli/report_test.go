//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/snapshot"
	"github.com/pgEdge/pgedge-superstore/internal/transform"
	"github.com/pgEdge/pgedge-superstore/internal/warehouse"
)

func TestPrintReport(t *testing.T) {
	var b strings.Builder
	printReport(&b, transform.Report{
		InputRows:      10,
		InputColumns:   4,
		DuplicateRows:  2,
		DroppedColumns: []string{"notes"},
		NumericColumns: []string{"sales"},
		OutputRows:     8,
		Columns: []transform.ColumnStat{
			{Name: "sales", Kind: frame.KindNumber, Nulls: 1},
			{Name: "city", Kind: frame.KindText, Nulls: 0},
		},
	})
	out := b.String()

	assert.Contains(t, out, "Input:      10 rows, 4 columns")
	assert.Contains(t, out, "Dropped:    notes")
	assert.Contains(t, out, "Dates:      none")
	assert.Contains(t, out, "Output:     8 rows")
	assert.Regexp(t, `\|\s*sales\s*\|\s*number\s*\|\s*1\s*\|`, out)
	assert.Regexp(t, `\|\s*city\s*\|\s*text\s*\|\s*0\s*\|`, out)
}

func TestPrintLoad(t *testing.T) {
	var b strings.Builder
	printLoad(&b, warehouse.LoadResult{
		RunID:    "abc",
		LoadedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Counts:   map[string]int64{warehouse.TableFact: 42, warehouse.TableLocation: 3},
	})
	out := b.String()
	assert.Contains(t, out, "load abc committed 42 fact rows")
	assert.Regexp(t, `\|\s*fact_order\s*\|\s*42\s*\|`, out)
	assert.Regexp(t, `\|\s*dim_product\s*\|\s*0\s*\|`, out)

	b.Reset()
	printLoad(&b, warehouse.LoadResult{RunID: "abc", Err: errors.New("boom")})
	assert.Equal(t, "load abc failed: boom\n", b.String())
}

func TestPrintSnapshots(t *testing.T) {
	var b strings.Builder
	printSnapshots(&b, nil)
	assert.Empty(t, b.String())

	printSnapshots(&b, &snapshot.Files{Facts: "out/superstore.csv", Dates: "out/d.csv", Customers: "out/c.csv"})
	assert.Contains(t, b.String(), "out/superstore.csv")
}

func TestPrintMetadataOrder(t *testing.T) {
	var b strings.Builder
	printMetadata(&b, map[string]string{
		"rows.fact_order": "3",
		"version":         "0.1.0",
		"run_id":          "abc",
		"loaded_at":       "not a time",
	})
	out := b.String()

	idx := func(s string) int { return strings.Index(out, s) }
	assert.Less(t, idx("loaded_at"), idx("run_id"))
	assert.Less(t, idx("run_id"), idx("version"))
	assert.Less(t, idx("version"), idx("rows.fact_order"))
	assert.Contains(t, out, "not a time")
}

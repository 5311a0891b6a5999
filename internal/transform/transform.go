//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package transform cleans a raw sales export and decomposes it into the
// enriched fact rows and the date, customer value and product dimensions.
// It performs no I/O.
package transform

import (
	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/logging"
	"github.com/pgEdge/pgedge-superstore/internal/model"
)

// RequiredColumns must be present after header normalization.
var RequiredColumns = []string{
	"order_date", "ship_date", "sales", "profit", "discount",
	"customer_id", "product_id",
}

// numericColumns must be adopted as numeric by type sniffing.
var numericColumns = []string{"sales", "profit", "discount"}

// Result holds the outputs of Transform.
type Result struct {
	// Facts is the cleaned and enriched row set. It keeps every surviving
	// input column followed by the derived columns.
	Facts *frame.Frame

	Dates     []model.DateRow
	Customers []model.CustomerValue
	Products  []model.ProductRow

	Report Report
}

// Report carries diagnostics about a transform run. It is not part of the
// data contract.
type Report struct {
	InputRows      int
	InputColumns   int
	DuplicateRows  int
	DroppedColumns []string
	EmptyRows      int
	DateColumns    []string
	NumericColumns []string
	Columns        []ColumnStat
	OutputRows     int
}

// ColumnStat describes one output column.
type ColumnStat struct {
	Name  string
	Kind  frame.Kind
	Nulls int
}

// Transform runs the cleaning pipeline over raw, which it modifies in
// place. raw is expected to hold text cells as produced by the extractor.
func Transform(raw *frame.Frame) (*Result, error) {
	f := raw
	rep := Report{InputRows: f.Len(), InputColumns: len(f.Columns())}

	if err := f.Rename(NormalizeHeader); err != nil {
		return nil, &model.DataShapeError{Reason: err.Error()}
	}

	rep.DuplicateRows = dropDuplicates(f)
	rep.DroppedColumns, rep.EmptyRows = pruneEmpty(f)
	canonicalizeMissing(f)

	logging.Debug().
		Int("duplicates", rep.DuplicateRows).
		Strs("dropped_columns", rep.DroppedColumns).
		Int("empty_rows", rep.EmptyRows).
		Msg("Pruned input")

	if err := model.MissingColumns(f.Has, RequiredColumns); err != nil {
		return nil, err
	}

	rep.DateColumns = coerceDates(f)
	rep.NumericColumns = sniffTypes(f)

	var notNumeric []string
	for _, name := range numericColumns {
		if f.Column(name).Kind != frame.KindNumber {
			notNumeric = append(notNumeric, name)
		}
	}
	if len(notNumeric) > 0 {
		return nil, &model.DataShapeError{Columns: notNumeric, Reason: "columns are not numeric"}
	}

	if err := addDerived(f); err != nil {
		return nil, err
	}
	titleCase(f)

	res := &Result{
		Facts:     f,
		Customers: aggregateCustomers(f),
		Products:  aggregateProducts(f),
		Dates:     buildDates(f),
	}

	rep.OutputRows = f.Len()
	for _, c := range f.Columns() {
		rep.Columns = append(rep.Columns, ColumnStat{Name: c.Name, Kind: c.Kind, Nulls: c.NullCount()})
	}
	res.Report = rep

	logging.Info().
		Int("rows", rep.OutputRows).
		Int("customers", len(res.Customers)).
		Int("products", len(res.Products)).
		Int("dates", len(res.Dates)).
		Msg("Transform complete")

	return res, nil
}

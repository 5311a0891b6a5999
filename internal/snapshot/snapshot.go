//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package snapshot writes flat CSV copies of the transform outputs.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/logging"
	"github.com/pgEdge/pgedge-superstore/internal/model"
)

// Snapshot file names.
const (
	FactsFile     = "superstore.csv"
	DatesFile     = "superstore_date.csv"
	CustomersFile = "superstore_customer.csv"
)

// Files lists the paths written by Write.
type Files struct {
	Facts     string
	Dates     string
	Customers string
}

// Writer writes snapshots into a directory, creating it if needed.
type Writer struct {
	Dir string
}

// NewWriter returns a Writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Write writes all three snapshots. Existing files are replaced.
func (w *Writer) Write(facts *frame.Frame, dates []model.DateRow, customers []model.CustomerValue) (*Files, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := &Files{
		Facts:     filepath.Join(w.Dir, FactsFile),
		Dates:     filepath.Join(w.Dir, DatesFile),
		Customers: filepath.Join(w.Dir, CustomersFile),
	}

	if err := writeFile(files.Facts, func(out io.Writer) error { return WriteFacts(out, facts) }); err != nil {
		return nil, err
	}
	if err := writeFile(files.Dates, func(out io.Writer) error { return WriteDates(out, dates) }); err != nil {
		return nil, err
	}
	if err := writeFile(files.Customers, func(out io.Writer) error { return WriteCustomers(out, customers) }); err != nil {
		return nil, err
	}

	logging.Info().
		Str("dir", w.Dir).
		Int("facts", facts.Len()).
		Int("dates", len(dates)).
		Int("customers", len(customers)).
		Msg("Snapshots written")

	return files, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteFacts writes every column of the fact frame in frame order.
// Missing cells are written empty.
func WriteFacts(out io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(f.Names()); err != nil {
		return err
	}

	cols := f.Columns()
	record := make([]string, len(cols))
	for r := 0; r < f.Len(); r++ {
		for i, c := range cols {
			record[i], _ = frame.Text(c.Values[r])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDates writes dim_date rows.
func WriteDates(out io.Writer, rows []model.DateRow) error {
	return encodeRows(out, model.DateRow{}, rows)
}

// WriteCustomers writes the customer value aggregate.
func WriteCustomers(out io.Writer, rows []model.CustomerValue) error {
	return encodeRows(out, model.CustomerValue{}, rows)
}

func encodeRows[T any](out io.Writer, zero T, rows []T) error {
	cw := csv.NewWriter(out)
	enc := csvutil.NewEncoder(cw)
	enc.Register(marshalDate)
	enc.Register(marshalFloat)

	if err := enc.EncodeHeader(zero); err != nil {
		return err
	}
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func marshalDate(t time.Time) ([]byte, error) {
	return t.AppendFormat(nil, frame.DateLayout), nil
}

// marshalFloat avoids exponent notation.
func marshalFloat(f float64) ([]byte, error) {
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

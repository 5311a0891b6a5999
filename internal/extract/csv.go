//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads the raw sales export into a text frame.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/logging"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Options configures CSV extraction.
type Options struct {
	// Encoding names the input character set: "utf-8" (default),
	// "windows-1252" or "latin1".
	Encoding string

	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune
}

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("input has no header row")

// Encoding returns the character set for a name.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}

// Decoder returns the decoder for a named encoding.
func Decoder(name string) (*encoding.Decoder, error) {
	enc, err := Encoding(name)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder(), nil
}

// ReadCSV reads a CSV document with a header row into a frame of text
// cells. Every record must have as many fields as the header.
func ReadCSV(r io.Reader, opts Options) (*frame.Frame, error) {
	dec, err := Decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dec.Reader(r))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		records = append(records, rec)
	}

	logging.Debug().
		Int("columns", len(header)).
		Int("rows", len(records)).
		Msg("Read CSV input")

	return frame.FromRecords(header, records)
}

// ReadFile opens path and reads it with ReadCSV.
func ReadFile(path string, opts Options) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	raw, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Int("rows", raw.Len()).
		Int("columns", len(raw.Columns())).
		Msg("Extracted input")

	return raw, nil
}

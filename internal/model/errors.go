//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package model

import (
	"fmt"
	"strings"
)

// DataShapeError reports input that cannot be shaped into the star schema:
// required columns absent or of the wrong type after normalization.
type DataShapeError struct {
	Columns []string
	Reason  string
}

func (e *DataShapeError) Error() string {
	if len(e.Columns) == 0 {
		return "data shape: " + e.Reason
	}
	return fmt.Sprintf("data shape: %s: %s", e.Reason, strings.Join(e.Columns, ", "))
}

// MissingColumns returns a DataShapeError naming the required columns
// that are not present, or nil when all are present.
func MissingColumns(has func(string) bool, required []string) *DataShapeError {
	var missing []string
	for _, c := range required {
		if !has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &DataShapeError{Columns: missing, Reason: "required columns missing"}
}

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
	"fmt"
	"strings"
)

// PersistenceError reports a database failure during a load. The
// transaction it occurred in has been rolled back.
type PersistenceError struct {
	// Op is the failed operation: connect, begin, create, insert, upsert,
	// metadata or commit.
	Op    string
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IntegrityGap is a fact row that does not resolve to a dimension row.
type IntegrityGap struct {
	// Row is the zero-based row of the fact frame.
	Row     int
	OrderID string
	// Dimension is the table the row failed to join, such as dim_location.
	Dimension string
	// Key is the unresolved key as text, empty when the key is missing.
	Key string
}

func (g IntegrityGap) String() string {
	key := g.Key
	if key == "" {
		key = "<missing>"
	}
	return fmt.Sprintf("row %d (order %q): no %s row for %s", g.Row, g.OrderID, g.Dimension, key)
}

// IntegrityGapError aborts a load whose fact rows fail to resolve their
// dimension keys. Nothing has been written when it is returned.
type IntegrityGapError struct {
	Gaps []IntegrityGap
}

// maxReportedGaps bounds the gaps spelled out by Error.
const maxReportedGaps = 5

func (e *IntegrityGapError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "integrity: %d fact rows with unresolved dimension keys", len(e.Gaps))
	for i, g := range e.Gaps {
		if i == maxReportedGaps {
			fmt.Fprintf(&b, "; and %d more", len(e.Gaps)-maxReportedGaps)
			break
		}
		b.WriteString("; ")
		b.WriteString(g.String())
	}
	return b.String()
}

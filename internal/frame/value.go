//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO date layout used when rendering date cells.
const DateLayout = "2006-01-02"

// Key encodes a cell so that equal cells produce equal keys. Cells of
// different types never collide.
func Key(v any) string {
	switch x := v.(type) {
	case nil:
		return "\x00"
	case string:
		return "s" + x
	case float64:
		return "n" + strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return "t" + x.UTC().Format(time.RFC3339Nano)
	default:
		return "?" + fmt.Sprint(x)
	}
}

// Text renders a cell as text. Numbers use the shortest representation,
// dates use DateLayout. The second result is false for missing cells.
func Text(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case time.Time:
		return x.Format(DateLayout), true
	default:
		return fmt.Sprint(x), true
	}
}

// TextPtr is Text returning nil for missing cells.
func TextPtr(v any) *string {
	s, ok := Text(v)
	if !ok {
		return nil
	}
	return &s
}

// Number returns a float64 cell. The second result is false for missing or
// non-numeric cells, and for NaN.
func Number(v any) (float64, bool) {
	x, ok := v.(float64)
	if !ok || math.IsNaN(x) {
		return 0, false
	}
	return x, true
}

// Date returns a time.Time cell.
func Date(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// Compare orders two cells. Missing cells sort last; numbers sort before
// dates, dates before text.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		return x.Compare(b.(time.Time))
	case string:
		return strings.Compare(x, b.(string))
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case float64:
		return 0
	case time.Time:
		return 1
	case string:
		return 2
	case nil:
		return 4
	}
	return 3
}

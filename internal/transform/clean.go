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
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/oarkflow/date"
	"github.com/zeebo/xxh3"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
)

// missingTokens is matched exactly: "NA" and "NONE" are not missing.
var missingTokens = map[string]struct{}{
	"":     {},
	" ":    {},
	"NULL": {},
	"null": {},
	"Null": {},
	"N/A":  {},
	"n/a":  {},
	"na":   {},
	"NaN":  {},
	"nan":  {},
	"?":    {},
	"none": {},
	"None": {},
}

// NormalizeHeader trims, lowercases and collapses runs of whitespace and
// hyphens into a single underscore.
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	inRun := false
	for _, r := range name {
		if unicode.IsSpace(r) || r == '-' {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsMissing reports whether a raw cell is absent or a sentinel token.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, sentinel := missingTokens[s]
	return sentinel
}

// dropDuplicates removes rows identical across all columns, keeping the
// first occurrence. It returns the number of rows removed.
func dropDuplicates(f *frame.Frame) int {
	before := f.Len()

	// Kept rows are indexed by key hash; full keys are compared only on a
	// hash match.
	seen := make(map[uint64][]int, before)
	f.Filter(func(r int) bool {
		key := f.RowKey(r)
		h := xxh3.HashString(key)
		for _, prev := range seen[h] {
			if f.RowKey(prev) == key {
				return false
			}
		}
		seen[h] = append(seen[h], r)
		return true
	})
	return before - f.Len()
}

// pruneEmpty drops entirely missing columns, then entirely missing rows.
func pruneEmpty(f *frame.Frame) (columns []string, rows int) {
	for _, c := range f.Columns() {
		empty := true
		for _, v := range c.Values {
			if !IsMissing(v) {
				empty = false
				break
			}
		}
		if empty {
			columns = append(columns, c.Name)
		}
	}
	f.Drop(columns...)

	before := f.Len()
	cols := f.Columns()
	f.Filter(func(r int) bool {
		for _, c := range cols {
			if !IsMissing(c.Values[r]) {
				return true
			}
		}
		return false
	})
	return columns, before - f.Len()
}

// canonicalizeMissing replaces every sentinel token with nil.
func canonicalizeMissing(f *frame.Frame) {
	for _, c := range f.Columns() {
		for i, v := range c.Values {
			if IsMissing(v) {
				c.Values[i] = nil
			}
		}
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
	time.RFC3339,
}

// ParseDate parses a date cell. Wall-clock fields are kept and the
// location is normalized to UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	t, err := date.Parse(s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
}

// coerceDates parses every column whose name contains "date". Unparsable
// cells become missing.
func coerceDates(f *frame.Frame) []string {
	var coerced []string
	for _, c := range f.Columns() {
		if !strings.Contains(c.Name, "date") || c.Kind == frame.KindDate {
			continue
		}
		for i, v := range c.Values {
			s, ok := v.(string)
			if !ok {
				c.Values[i] = nil
				continue
			}
			if t, ok := ParseDate(s); ok {
				c.Values[i] = t
			} else {
				c.Values[i] = nil
			}
		}
		c.Kind = frame.KindDate
		coerced = append(coerced, c.Name)
	}
	return coerced
}

// ParseNumber strips currency symbols, thousands separators and
// whitespace, then parses a decimal number.
func ParseNumber(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, false
	}
	digits := strings.TrimLeft(cleaned, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	x, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(x) {
		return 0, false
	}
	return x, true
}

// sniffTypes adopts a text column as numeric when strictly more than 90%
// of its non-missing cells parse as numbers. Other text columns are trimmed.
func sniffTypes(f *frame.Frame) []string {
	var numeric []string
	for _, c := range f.Columns() {
		if c.Kind != frame.KindText {
			continue
		}

		parsed := make([]any, len(c.Values))
		nonNull, ok := 0, 0
		for i, v := range c.Values {
			s, isText := v.(string)
			if !isText {
				continue
			}
			nonNull++
			if x, good := ParseNumber(s); good {
				parsed[i] = x
				ok++
			}
		}

		// ok/nonNull > 9/10, kept in integers so exactly 90% never qualifies.
		if nonNull > 0 && ok*10 > nonNull*9 {
			c.Values = parsed
			c.Kind = frame.KindNumber
			numeric = append(numeric, c.Name)
			continue
		}
		for i, v := range c.Values {
			if s, isText := v.(string); isText {
				c.Values[i] = strings.TrimSpace(s)
			}
		}
	}
	return numeric
}

//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/pgEdge/pgedge-superstore/internal/snapshot"
	"github.com/pgEdge/pgedge-superstore/internal/transform"
	"github.com/pgEdge/pgedge-superstore/internal/warehouse"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func printReport(w io.Writer, rep transform.Report) {
	fmt.Fprintf(w, "Input:      %d rows, %d columns\n", rep.InputRows, rep.InputColumns)
	fmt.Fprintf(w, "Duplicates: %d\n", rep.DuplicateRows)
	fmt.Fprintf(w, "Empty rows: %d\n", rep.EmptyRows)
	fmt.Fprintf(w, "Dropped:    %s\n", listOrNone(rep.DroppedColumns))
	fmt.Fprintf(w, "Dates:      %s\n", listOrNone(rep.DateColumns))
	fmt.Fprintf(w, "Numeric:    %s\n", listOrNone(rep.NumericColumns))
	fmt.Fprintf(w, "Output:     %d rows\n\n", rep.OutputRows)

	table := newTable(w, "Column", "Type", "Nulls")
	for _, c := range rep.Columns {
		table.Append([]string{c.Name, c.Kind.String(), strconv.Itoa(c.Nulls)})
	}
	table.Render()
}

func printLoad(w io.Writer, res warehouse.LoadResult) {
	fmt.Fprintln(w, res.String())
	if !res.OK() {
		return
	}

	table := newTable(w, "Table", "Rows")
	for _, name := range warehouse.Tables {
		table.Append([]string{name, strconv.FormatInt(res.Counts[name], 10)})
	}
	table.Render()
}

func printSnapshots(w io.Writer, files *snapshot.Files) {
	if files == nil {
		return
	}
	table := newTable(w, "Snapshot", "Path")
	table.Append([]string{"facts", files.Facts})
	table.Append([]string{"dates", files.Dates})
	table.Append([]string{"customers", files.Customers})
	table.Render()
}

// printMetadata renders run metadata with the row counts last.
func printMetadata(w io.Writer, md map[string]string) {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := strings.HasPrefix(keys[i], "rows."), strings.HasPrefix(keys[j], "rows.")
		if ri != rj {
			return rj
		}
		return keys[i] < keys[j]
	})

	table := newTable(w, "Key", "Value")
	for _, k := range keys {
		v := md[k]
		if k == "loaded_at" {
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				v = fmt.Sprintf("%s (%s ago)", v, time.Since(t).Round(time.Second))
			}
		}
		table.Append([]string{k, v})
	}
	table.Render()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

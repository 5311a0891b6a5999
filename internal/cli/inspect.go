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
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-superstore/internal/extract"
	"github.com/pgEdge/pgedge-superstore/internal/transform"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Show what the transform would do to an export",
	Long: `Read and clean an export without loading or writing anything, then
print the transform report: duplicates removed, columns dropped, the
inferred type and null count of every output column.

Example:
  pgedge-superstore inspect "extracted/Sample - Superstore.csv" --encoding windows-1252`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

var inspectEncoding string

func init() {
	inspectCmd.Flags().StringVar(&inspectEncoding, "encoding", "",
		"input encoding: utf-8, windows-1252, latin1")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.Input.Path = args[0]
	}
	if inspectEncoding != "" {
		cfg.Input.Encoding = inspectEncoding
	}
	if err := cfg.ValidateRun(true); err != nil {
		return err
	}

	raw, err := extract.ReadFile(cfg.Input.Path, extract.Options{
		Encoding: cfg.Input.Encoding,
		Comma:    cfg.Input.Comma(),
	})
	if err != nil {
		return err
	}
	res, err := transform.Transform(raw)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), res.Report)
	return nil
}

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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-superstore/internal/logging"
	"github.com/pgEdge/pgedge-superstore/internal/sample"
)

var (
	generateRows     int
	generateSeed     uint64
	generateOutput   string
	generateEncoding string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic sales export",
	Long: `Generate a Superstore-shaped CSV export with realistic defects:
duplicate rows, sentinel values, an empty column and currency-formatted
sales. The same seed always produces the same file.

Example:
  pgedge-superstore generate --rows 10000 --seed 42 --output extracted/sample.csv`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateRows, "rows", 0,
		"number of distinct order lines")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0,
		"random seed (0 = random)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "",
		"output path")
	generateCmd.Flags().StringVar(&generateEncoding, "encoding", "",
		"output encoding: utf-8, windows-1252, latin1")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if generateRows > 0 {
		cfg.Generate.Rows = generateRows
	}
	if generateSeed != 0 {
		cfg.Generate.Seed = generateSeed
	}
	if generateOutput != "" {
		cfg.Generate.Output = generateOutput
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Generate.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	g := sample.NewGenerator(sample.Options{
		Rows:     cfg.Generate.Rows,
		Seed:     cfg.Generate.Seed,
		Encoding: generateEncoding,
	})
	if err := g.WriteFile(cfg.Generate.Output); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}

	logging.Info().
		Str("output", cfg.Generate.Output).
		Int("rows", cfg.Generate.Rows).
		Uint64("seed", cfg.Generate.Seed).
		Msg("Sample export written")
	return nil
}

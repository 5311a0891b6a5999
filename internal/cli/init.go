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

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-superstore/internal/logging"
	"github.com/pgEdge/pgedge-superstore/internal/warehouse"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the star schema without loading data",
	Long: `Create the dimension, fact and metadata tables if they do not exist.
Running init against an initialized warehouse is a no-op.

Example:
  pgedge-superstore init --connection "postgres://etl@localhost/superstore"`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Validate configuration
	if err := cfg.ValidateWarehouse(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	loader, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer loader.Close()

	logging.Info().Strs("tables", warehouse.Tables).Msg("Creating schema")
	if err := loader.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logging.Info().Msg("Warehouse initialization complete")
	return nil
}

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

	"github.com/pgEdge/pgedge-superstore/internal/warehouse"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the metadata of the last committed load",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	md, err := loader.Metadata(ctx)
	if err != nil {
		return err
	}
	if len(md) == 0 {
		cmd.Println("Warehouse has not been loaded; run 'pgedge-superstore run' first.")
		return nil
	}

	printMetadata(cmd.OutOrStdout(), md)
	return nil
}

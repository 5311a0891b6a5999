//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package main is the entry point for pgedge-superstore.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-superstore/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

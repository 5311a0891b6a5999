//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline drives one ETL run: extract, transform, load and
// snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-superstore/internal/extract"
	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/logging"
	"github.com/pgEdge/pgedge-superstore/internal/model"
	"github.com/pgEdge/pgedge-superstore/internal/snapshot"
	"github.com/pgEdge/pgedge-superstore/internal/transform"
	"github.com/pgEdge/pgedge-superstore/internal/warehouse"
)

// ErrNoLoader is returned when a load is requested without a loader.
var ErrNoLoader = errors.New("no warehouse loader configured")

// Config describes one run.
type Config struct {
	// Input is the path of the raw export.
	Input   string
	Extract extract.Options

	// OutputDir receives the CSV snapshots.
	OutputDir string

	SkipLoad bool
}

// Loader persists a transformed run. *warehouse.Loader implements it.
type Loader interface {
	Load(ctx context.Context, in warehouse.Input) warehouse.LoadResult
}

// SnapshotWriter persists the cleaned outputs. *snapshot.Writer
// implements it.
type SnapshotWriter interface {
	Write(facts *frame.Frame, dates []model.DateRow, customers []model.CustomerValue) (*snapshot.Files, error)
}

// Deps holds the collaborators of a run. Snapshots defaults to a
// snapshot.Writer over Config.OutputDir.
type Deps struct {
	Loader    Loader
	Snapshots SnapshotWriter
}

// Result reports what a run did.
type Result struct {
	Report transform.Report

	// Load is nil when the load was skipped.
	Load *warehouse.LoadResult

	Files    *snapshot.Files
	Duration time.Duration
}

// LoadErr returns the load error, if a load ran and failed.
func (r *Result) LoadErr() error {
	if r == nil || r.Load == nil {
		return nil
	}
	return r.Load.Err
}

// Run executes the pipeline. Extraction and transform errors abort the
// run before anything is loaded. A failed load is reported in
// Result.Load rather than returned, and snapshots are written either way;
// the caller decides whether the load failure is fatal.
func Run(ctx context.Context, cfg Config, deps Deps) (*Result, error) {
	if !cfg.SkipLoad && deps.Loader == nil {
		return nil, ErrNoLoader
	}
	if deps.Snapshots == nil {
		deps.Snapshots = snapshot.NewWriter(cfg.OutputDir)
	}
	start := time.Now()

	raw, err := extract.ReadFile(cfg.Input, cfg.Extract)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	logging.Info().
		Str("input", cfg.Input).
		Int("rows", raw.Len()).
		Int("columns", len(raw.Columns())).
		Msg("Extracted input")

	tr, err := transform.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	res := &Result{Report: tr.Report}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if cfg.SkipLoad {
		logging.Info().Msg("Skipping warehouse load")
	} else {
		lr := deps.Loader.Load(ctx, warehouse.Input{
			Facts:     tr.Facts,
			Dates:     tr.Dates,
			Customers: tr.Customers,
			Products:  tr.Products,
			Source:    cfg.Input,
		})
		res.Load = &lr
	}

	files, err := deps.Snapshots.Write(tr.Facts, tr.Dates, tr.Customers)
	if err != nil {
		return res, fmt.Errorf("snapshot: %w", err)
	}
	res.Files = files
	res.Duration = time.Since(start)

	logging.Info().
		Str("facts", files.Facts).
		Str("dates", files.Dates).
		Str("customers", files.Customers).
		Dur("duration", res.Duration).
		Msg("Snapshots written")

	return res, nil
}

//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-superstore/internal/frame"
	"github.com/pgEdge/pgedge-superstore/internal/model"
	"github.com/pgEdge/pgedge-superstore/internal/sample"
	"github.com/pgEdge/pgedge-superstore/internal/snapshot"
	"github.com/pgEdge/pgedge-superstore/internal/warehouse"
)

type fakeLoader struct {
	calls []warehouse.Input
	err   error
}

func (l *fakeLoader) Load(ctx context.Context, in warehouse.Input) warehouse.LoadResult {
	l.calls = append(l.calls, in)
	return warehouse.LoadResult{RunID: "run-1", Err: l.err}
}

type failingSnapshots struct{}

func (failingSnapshots) Write(*frame.Frame, []model.DateRow, []model.CustomerValue) (*snapshot.Files, error) {
	return nil, errors.New("disk full")
}

func writeSample(t *testing.T, rows int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "superstore.csv")
	require.NoError(t, sample.NewGenerator(sample.Options{Rows: rows, Seed: 9, DuplicateRate: -1}).WriteFile(path))
	return path
}

func TestRunSkipLoad(t *testing.T) {
	out := t.TempDir()
	res, err := Run(context.Background(), Config{
		Input:     writeSample(t, 100),
		OutputDir: out,
		SkipLoad:  true,
	}, Deps{})
	require.NoError(t, err)

	assert.Nil(t, res.Load)
	assert.NoError(t, res.LoadErr())
	assert.Equal(t, 100, res.Report.OutputRows)
	for _, p := range []string{res.Files.Facts, res.Files.Dates, res.Files.Customers} {
		assert.FileExists(t, p)
		assert.Equal(t, out, filepath.Dir(p))
	}
}

func TestRunLoads(t *testing.T) {
	input := writeSample(t, 60)
	loader := &fakeLoader{}
	res, err := Run(context.Background(), Config{Input: input, OutputDir: t.TempDir()}, Deps{Loader: loader})
	require.NoError(t, err)

	require.Len(t, loader.calls, 1)
	in := loader.calls[0]
	assert.Equal(t, input, in.Source)
	assert.Equal(t, 60, in.Facts.Len())
	assert.NotEmpty(t, in.Customers)
	assert.NotEmpty(t, in.Products)
	require.NotNil(t, res.Load)
	assert.Equal(t, "run-1", res.Load.RunID)
}

func TestRunLoadFailureStillSnapshots(t *testing.T) {
	loader := &fakeLoader{err: &warehouse.PersistenceError{Op: "insert", Table: warehouse.TableFact, Err: errors.New("boom")}}
	res, err := Run(context.Background(), Config{Input: writeSample(t, 30), OutputDir: t.TempDir()}, Deps{Loader: loader})
	require.NoError(t, err)

	var pe *warehouse.PersistenceError
	require.ErrorAs(t, res.LoadErr(), &pe)
	assert.Equal(t, warehouse.TableFact, pe.Table)
	assert.FileExists(t, res.Files.Facts)
}

func TestRunTransformErrorAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Order Date,Customer ID\n1/2/2016,C1\n"), 0o644))

	loader := &fakeLoader{}
	out := filepath.Join(t.TempDir(), "cleaned")
	_, err := Run(context.Background(), Config{Input: path, OutputDir: out}, Deps{Loader: loader})

	var shape *model.DataShapeError
	require.ErrorAs(t, err, &shape)
	assert.Contains(t, shape.Columns, "sales")
	assert.Empty(t, loader.calls)
	assert.NoDirExists(t, out)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), Config{Input: "x.csv"}, Deps{})
	assert.ErrorIs(t, err, ErrNoLoader)

	_, err = Run(context.Background(), Config{Input: filepath.Join(t.TempDir(), "missing.csv"), SkipLoad: true}, Deps{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	res, err := Run(context.Background(), Config{Input: writeSample(t, 10), SkipLoad: true}, Deps{Snapshots: failingSnapshots{}})
	assert.ErrorContains(t, err, "snapshot: disk full")
	require.NotNil(t, res)
	assert.Equal(t, 10, res.Report.OutputRows)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := &fakeLoader{}
	_, err := Run(ctx, Config{Input: writeSample(t, 10), OutputDir: t.TempDir()}, Deps{Loader: loader})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, loader.calls)
}

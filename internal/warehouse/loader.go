//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse derives the remaining star schema dimensions and loads
// the star into PostgreSQL in a single transaction.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-superstore/internal/config"
	"github.com/pgEdge/pgedge-superstore/internal/db"
	"github.com/pgEdge/pgedge-superstore/internal/logging"
	"github.com/pgEdge/pgedge-superstore/pkg/version"
)

// DB is satisfied by *pgxpool.Pool and *pgx.Conn.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options configures a Loader.
type Options struct {
	// DimensionConflict is config.ConflictAppend or config.ConflictUpsert.
	DimensionConflict string

	// BatchSize bounds the statements queued per pgx batch.
	BatchSize int

	// Now returns the load timestamp. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the default loader options.
func DefaultOptions() Options {
	return Options{
		DimensionConflict: config.ConflictAppend,
		BatchSize:         1000,
		Now:               time.Now,
	}
}

// LoadResult reports the outcome of a load. Err is nil on success.
type LoadResult struct {
	RunID    string
	LoadedAt time.Time

	// Counts holds the rows written per table.
	Counts map[string]int64

	// Gaps lists fact rows that failed to resolve a dimension. When non-empty
	// Err is an *IntegrityGapError and nothing was written.
	Gaps []IntegrityGap

	Err error
}

// OK reports whether the load committed.
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// Loader writes a star schema to PostgreSQL.
type Loader struct {
	db   DB
	pool *pgxpool.Pool
	opts Options
}

// NewLoader creates a loader over an existing handle. The caller owns the
// handle.
func NewLoader(handle DB, opts Options) *Loader {
	defaults := DefaultOptions()
	if opts.DimensionConflict == "" {
		opts.DimensionConflict = defaults.DimensionConflict
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	return &Loader{db: handle, opts: opts}
}

// Open connects to the configured warehouse. The returned loader owns its
// pool; call Close when done.
func Open(ctx context.Context, cfg config.WarehouseConfig) (*Loader, error) {
	pool, err := db.Connect(ctx, cfg.ConnString())
	if err != nil {
		return nil, &PersistenceError{Op: "connect", Err: err}
	}
	l := NewLoader(pool, Options{
		DimensionConflict: cfg.DimensionConflict,
		BatchSize:         cfg.BatchSize,
	})
	l.pool = pool
	return l, nil
}

// Close releases the pool opened by Open.
func (l *Loader) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

// InitSchema creates the star schema and metadata tables in their own
// transaction.
func (l *Loader) InitSchema(ctx context.Context) error {
	return l.inTx(ctx, func(tx pgx.Tx) error {
		return CreateSchema(ctx, tx)
	})
}

// Metadata returns the metadata of the most recent committed load.
func (l *Loader) Metadata(ctx context.Context) (map[string]string, error) {
	var md map[string]string
	err := l.inTx(ctx, func(tx pgx.Tx) error {
		exists, err := db.MetadataExists(ctx, tx)
		if err != nil {
			return &PersistenceError{Op: "metadata", Table: db.MetadataTable, Err: err}
		}
		if !exists {
			md = map[string]string{}
			return nil
		}
		md, err = db.GetAllMetadata(ctx, tx)
		if err != nil {
			return &PersistenceError{Op: "metadata", Table: db.MetadataTable, Err: err}
		}
		return nil
	})
	return md, err
}

// Load validates the input, then creates the schema and inserts every
// table inside one transaction. Any failure rolls the whole load back.
func (l *Loader) Load(ctx context.Context, in Input) LoadResult {
	res := LoadResult{
		RunID:    uuid.New().String(),
		LoadedAt: l.opts.Now().UTC().Truncate(time.Microsecond),
		Counts:   make(map[string]int64, len(Tables)),
	}
	log := logging.With("run_id", res.RunID)

	star, gaps, err := BuildStar(in)
	if err != nil {
		res.Err = err
		return res
	}
	if len(gaps) > 0 {
		res.Gaps = gaps
		res.Err = &IntegrityGapError{Gaps: gaps}
		log.Error().
			Int("gaps", len(gaps)).
			Str("first", gaps[0].String()).
			Msg("Fact rows do not resolve to dimensions, nothing loaded")
		return res
	}

	log.Info().
		Int("locations", len(star.Locations)).
		Int("customers", len(star.Customers)).
		Int("dates", len(star.Dates)).
		Int("products", len(star.Products)).
		Int("facts", len(star.Facts)).
		Str("dimension_conflict", l.opts.DimensionConflict).
		Msg("Loading warehouse")

	res.Err = l.inTx(ctx, func(tx pgx.Tx) error {
		if err := CreateSchema(ctx, tx); err != nil {
			return err
		}

		w := &writer{tx: tx, loadedAt: res.LoadedAt, batchSize: l.opts.BatchSize}
		upsertDims := l.opts.DimensionConflict == config.ConflictUpsert

		steps := []struct {
			table string
			write func(context.Context, *Star) (int64, error)
		}{
			{TableLocation, w.locations},
			{TableCustomer, func(ctx context.Context, s *Star) (int64, error) { return w.customers(ctx, s, upsertDims) }},
			{TableDate, func(ctx context.Context, s *Star) (int64, error) { return w.dates(ctx, s, upsertDims) }},
			{TableProduct, w.products},
			{TableFact, w.facts},
		}
		for _, step := range steps {
			n, err := step.write(ctx, star)
			if err != nil {
				return err
			}
			res.Counts[step.table] = n
			log.Debug().Str("table", step.table).Int64("rows", n).Msg("Table loaded")
		}

		if err := db.SaveMetadata(ctx, tx, runMetadata(res, in.Source)); err != nil {
			return &PersistenceError{Op: "metadata", Table: db.MetadataTable, Err: err}
		}
		return nil
	})

	if res.Err != nil {
		log.Error().Err(res.Err).Msg("Warehouse load rolled back")
		return res
	}

	log.Info().
		Int64("facts", res.Counts[TableFact]).
		Time("loaded_at", res.LoadedAt).
		Msg("Warehouse load committed")
	return res
}

// inTx runs fn in a transaction, committing when fn succeeds. The
// transaction is rolled back on every other path.
func (l *Loader) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return &PersistenceError{Op: "begin", Err: err}
	}
	defer func() {
		if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
			logging.Warn().Err(rerr).Msg("Rollback failed")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

func runMetadata(res LoadResult, source string) map[string]string {
	md := map[string]string{
		"run_id":    res.RunID,
		"loaded_at": res.LoadedAt.Format(time.RFC3339Nano),
		"version":   version.Short(),
	}
	if source != "" {
		md["source"] = source
	}
	for table, n := range res.Counts {
		md["rows."+table] = strconv.FormatInt(n, 10)
	}
	return md
}

// String renders a result for logs and CLI output.
func (r LoadResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("load %s failed: %v", r.RunID, r.Err)
	}
	return fmt.Sprintf("load %s committed %d fact rows at %s",
		r.RunID, r.Counts[TableFact], r.LoadedAt.Format(time.RFC3339))
}

//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB hands out a single fakeTx.
type fakeDB struct {
	tx       *fakeTx
	beginErr error
	begins   int
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.begins++
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

type execCall struct {
	sql  string
	args []any
}

// fakeTx records statements. Methods the loader does not use fall through
// to the nil embedded interface and panic.
type fakeTx struct {
	pgx.Tx

	execs   []execCall
	copies  map[string][][]any
	batches [][]execCall

	// failCopy and failSQL inject errors by table name and SQL substring.
	failCopy map[string]error
	failSQL  map[string]error

	committed  bool
	rolledBack bool
	commitErr  error
}

func newFakeTx() *fakeTx {
	return &fakeTx{copies: make(map[string][][]any)}
}

func (tx *fakeTx) failure(sql string) error {
	for frag, err := range tx.failSQL {
		if strings.Contains(sql, frag) {
			return err
		}
	}
	return nil
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if err := tx.failure(sql); err != nil {
		return pgconn.CommandTag{}, err
	}
	tx.execs = append(tx.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	name := table[0]
	if err := tx.failCopy[name]; err != nil {
		return 0, err
	}
	var n int64
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return n, err
		}
		tx.copies[name] = append(tx.copies[name], values)
		n++
	}
	return n, src.Err()
}

func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	var calls []execCall
	for _, q := range b.QueuedQueries {
		calls = append(calls, execCall{sql: q.SQL, args: q.Arguments})
	}
	tx.batches = append(tx.batches, calls)
	return &fakeBatchResults{tx: tx, calls: calls}
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

// batchSQL returns every statement sent in batches.
func (tx *fakeTx) batchSQL() []string {
	var out []string
	for _, b := range tx.batches {
		for _, c := range b {
			out = append(out, c.sql)
		}
	}
	return out
}

type fakeBatchResults struct {
	pgx.BatchResults

	tx    *fakeTx
	calls []execCall
	next  int
}

func (br *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	c := br.calls[br.next]
	br.next++
	if err := br.tx.failure(c.sql); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (br *fakeBatchResults) Close() error {
	return nil
}

//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the metadata store.
// Run with: go test -tags=integration ./internal/db/...
// Requires PostgreSQL to be available.

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-superstore/internal/db"
	"github.com/pgEdge/pgedge-superstore/internal/testutil"
)

func TestMetadataRoundTrip(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	tdb := testutil.NewTestDB(t, baseConnStr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := db.MetadataExists(ctx, tdb.Pool)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if exists {
		t.Fatal("Expected no metadata table in a fresh database")
	}

	if _, err := tdb.Pool.Exec(ctx, db.CreateMetadataTableSQL); err != nil {
		t.Fatalf("Failed to create metadata table: %v", err)
	}

	if err := db.SaveMetadata(ctx, tdb.Pool, map[string]string{"run_id": "a", "rows.fact_order": "10"}); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	// A second save overwrites existing keys.
	if err := db.SaveMetadata(ctx, tdb.Pool, map[string]string{"run_id": "b"}); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	value, err := db.GetMetadataValue(ctx, tdb.Pool, "run_id")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if value != "b" {
		t.Errorf("Expected run_id 'b', got '%s'", value)
	}

	all, err := db.GetAllMetadata(ctx, tdb.Pool)
	if err != nil {
		t.Fatalf("GetAllMetadata failed: %v", err)
	}
	if len(all) != 2 || all["rows.fact_order"] != "10" {
		t.Errorf("Unexpected metadata: %v", all)
	}

	exists, err = db.MetadataExists(ctx, tdb.Pool)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected metadata table to exist")
	}
}

func TestConnect(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	pool.Close()

	if _, err := db.Connect(ctx, "not a connection string"); err == nil {
		t.Error("Expected error for invalid connection string")
	}
}

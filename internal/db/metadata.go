//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/pgEdge/pgedge-superstore/internal/logging"
)

// MetadataTable holds key/value facts about the most recent load.
const MetadataTable = "etl_load_metadata"

// CreateMetadataTableSQL creates the metadata table if it doesn't exist.
const CreateMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS etl_load_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

const upsertMetadataSQL = `
INSERT INTO etl_load_metadata (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

// SaveMetadata upserts every key of metadata. Keys are written in sorted
// order so repeated runs issue identical statements.
func SaveMetadata(ctx context.Context, db Execer, metadata map[string]string) error {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := db.Exec(ctx, upsertMetadataSQL, key, metadata[key]); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Int("keys", len(keys)).
		Msg("Saved load metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, db Querier, key string) (string, error) {
	var value string
	err := db.QueryRow(ctx, `
        SELECT value FROM etl_load_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, db Querier) (map[string]string, error) {
	rows, err := db.Query(ctx, `SELECT key, value FROM etl_load_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, db Querier) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, MetadataTable).Scan(&exists)
	return exists, err
}

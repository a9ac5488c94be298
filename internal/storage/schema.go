package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is portable DDL: it bootstraps both sqlite (development) and
// postgres (production). UUIDs are stored as text for the same reason.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		developer_nip TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS parse_runs (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		filename TEXT NOT NULL,
		content_sha256 TEXT NOT NULL,
		detected_format TEXT NOT NULL,
		format_confidence REAL NOT NULL,
		mapping_confidence REAL NOT NULL,
		total_rows INTEGER NOT NULL,
		valid_rows INTEGER NOT NULL,
		parsed_rows INTEGER NOT NULL,
		sold_rows INTEGER NOT NULL,
		skipped_rows INTEGER NOT NULL,
		compliance_score INTEGER NOT NULL,
		compliance_valid BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		run_id TEXT NOT NULL REFERENCES parse_runs(id),
		property_number TEXT,
		property_type TEXT,
		area REAL,
		price_per_m2 REAL,
		total_price REAL,
		final_price REAL,
		status TEXT,
		wojewodztwo TEXT,
		powiat TEXT,
		gmina TEXT,
		miejscowosc TEXT,
		ulica TEXT,
		kod_pocztowy TEXT,
		raw TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_parse_runs_project ON parse_runs(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_project ON records(project_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// DB is the subset of *sql.DB the repositories need; *sql.Tx satisfies it
// too.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ProjectRepository handles project CRUD operations.
type ProjectRepository struct {
	db DB
}

// NewProjectRepository creates a project repository.
func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	query := `
		INSERT INTO projects (id, name, developer_nip, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID.String(), project.Name, project.DeveloperNIP,
		project.CreatedAt, project.UpdatedAt,
	)
	return err
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, name, developer_nip, created_at, updated_at
		FROM projects WHERE id = $1
	`
	project := &Project{}
	var rawID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &project.Name, &project.DeveloperNIP,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	project.ID, err = uuid.Parse(rawID)
	return project, err
}

// RunRepository persists per-upload parse accounting.
type RunRepository struct {
	db DB
}

// NewRunRepository creates a run repository.
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores one parse run.
func (r *RunRepository) Create(ctx context.Context, run *ParseRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.CreatedAt = time.Now()

	query := `
		INSERT INTO parse_runs (
			id, project_id, filename, content_sha256, detected_format,
			format_confidence, mapping_confidence, total_rows, valid_rows,
			parsed_rows, sold_rows, skipped_rows, compliance_score,
			compliance_valid, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID.String(), run.ProjectID.String(), run.Filename, run.ContentSHA256,
		run.DetectedFormat, run.FormatConfidence, run.MappingConfidence,
		run.TotalRows, run.ValidRows, run.ParsedRows, run.SoldRows,
		run.SkippedRows, run.ComplianceScore, run.ComplianceValid, run.CreatedAt,
	)
	return err
}

// ListByProject returns the runs of a project, newest first.
func (r *RunRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]ParseRun, error) {
	query := `
		SELECT id, project_id, filename, content_sha256, detected_format,
			format_confidence, mapping_confidence, total_rows, valid_rows,
			parsed_rows, sold_rows, skipped_rows, compliance_score,
			compliance_valid, created_at
		FROM parse_runs WHERE project_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, projectID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ParseRun
	for rows.Next() {
		var run ParseRun
		var rawID, rawProjectID string
		if err := rows.Scan(
			&rawID, &rawProjectID, &run.Filename, &run.ContentSHA256,
			&run.DetectedFormat, &run.FormatConfidence, &run.MappingConfidence,
			&run.TotalRows, &run.ValidRows, &run.ParsedRows, &run.SoldRows,
			&run.SkippedRows, &run.ComplianceScore, &run.ComplianceValid,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		if run.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if run.ProjectID, err = uuid.Parse(rawProjectID); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecordRepository persists accepted listing records.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a record repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// BulkInsert writes all records of one run in a single transaction.
// Re-imports replace earlier rows with the same deterministic ID.
func (r *RecordRepository) BulkInsert(ctx context.Context, records []StoredRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := BulkInsertTx(ctx, tx, records); err != nil {
		return err
	}
	return tx.Commit()
}

// BulkInsertTx writes records on an already open transaction, for callers
// that insert the parse run and its records atomically. The run row must
// exist before this runs: records.run_id references parse_runs(id).
func BulkInsertTx(ctx context.Context, tx *sql.Tx, records []StoredRecord) error {
	query := `
		INSERT INTO records (
			id, project_id, run_id, property_number, property_type, area,
			price_per_m2, total_price, final_price, status, wojewodztwo,
			powiat, gmina, miejscowosc, ulica, kod_pocztowy, raw, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			run_id = excluded.run_id,
			area = excluded.area,
			price_per_m2 = excluded.price_per_m2,
			total_price = excluded.total_price,
			final_price = excluded.final_price,
			status = excluded.status,
			raw = excluded.raw
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare bulk insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range records {
		rec := &records[i]
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID.String(), rec.ProjectID.String(), rec.RunID.String(),
			rec.PropertyNumber, rec.PropertyType, rec.Area, rec.PricePerM2,
			rec.TotalPrice, rec.FinalPrice, rec.Status, rec.Wojewodztwo,
			rec.Powiat, rec.Gmina, rec.Miejscowosc, rec.Ulica, rec.KodPocztowy,
			string(rec.Raw), rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}

	return nil
}

// ListByRun returns a run's records in insertion order.
func (r *RecordRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]StoredRecord, error) {
	query := `
		SELECT id, project_id, run_id, property_number, property_type, area,
			price_per_m2, total_price, final_price, status, wojewodztwo,
			powiat, gmina, miejscowosc, ulica, kod_pocztowy, raw, created_at
		FROM records WHERE run_id = $1 ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var rec StoredRecord
		var rawID, rawProjectID, rawRunID, rawJSON string
		if err := rows.Scan(
			&rawID, &rawProjectID, &rawRunID, &rec.PropertyNumber,
			&rec.PropertyType, &rec.Area, &rec.PricePerM2, &rec.TotalPrice,
			&rec.FinalPrice, &rec.Status, &rec.Wojewodztwo, &rec.Powiat,
			&rec.Gmina, &rec.Miejscowosc, &rec.Ulica, &rec.KodPocztowy,
			&rawJSON, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if rec.ProjectID, err = uuid.Parse(rawProjectID); err != nil {
			return nil, err
		}
		if rec.RunID, err = uuid.Parse(rawRunID); err != nil {
			return nil, err
		}
		rec.Raw = json.RawMessage(rawJSON)
		records = append(records, rec)
	}
	return records, rows.Err()
}

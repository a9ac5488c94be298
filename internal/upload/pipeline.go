// Package upload orchestrates one file upload end to end: parse, score,
// persist, account. The parsing engine stays pure; everything with side
// effects lives here.
package upload

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ofertomat/ofertomat/internal/compliance"
	"github.com/ofertomat/ofertomat/internal/observability"
	"github.com/ofertomat/ofertomat/internal/parser"
	"github.com/ofertomat/ofertomat/internal/storage"
)

// Pipeline processes uploads. Safe for concurrent use: per-upload state
// lives on the stack of Process.
type Pipeline struct {
	logger *observability.Logger
	engine *parser.Engine
	db     *sql.DB
}

// NewPipeline creates an upload pipeline. The database may be nil for
// parse-only use (the CLI without --save).
func NewPipeline(logger *observability.Logger, db *sql.DB) *Pipeline {
	return &Pipeline{
		logger: logger,
		engine: parser.NewEngine(),
		db:     db,
	}
}

// Request is one upload to process.
type Request struct {
	ProjectID uuid.UUID
	Filename  string
	SheetName string
	Content   []byte
	Persist   bool
}

// Result is the outcome of one processed upload.
type Result struct {
	RunID        uuid.UUID
	ContentSHA   string
	Parse        *parser.ParseResult
	Compliance   *compliance.Report
	SavedRecords int
	Duration     time.Duration
}

// Process runs the upload through parse, compliance scoring and, when
// requested, persistence.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.New()
	start := time.Now()
	log := p.logger.WithUpload(runID.String()).WithProject(req.ProjectID.String())

	sum := sha256.Sum256(req.Content)
	result := &Result{
		RunID:      runID,
		ContentSHA: hex.EncodeToString(sum[:]),
	}

	log.Info().
		Str("filename", req.Filename).
		Int("bytes", len(req.Content)).
		Msg("processing upload")

	parseResult, err := p.engine.Parse(req.Content, req.Filename, req.SheetName)
	result.Parse = parseResult
	if err != nil {
		log.Error().Err(err).Msg("upload is structurally unreadable")
		return result, fmt.Errorf("parse %s: %w", req.Filename, err)
	}

	result.Compliance = compliance.Score(parseResult.Data)

	log.Info().
		Bool("success", parseResult.Success).
		Str("format", string(parseResult.DetectedFormat)).
		Int("total_rows", parseResult.TotalRows).
		Int("parsed_rows", parseResult.ValidationStats.SuccessfullyParsed).
		Int("sold_rows", parseResult.ValidationStats.SoldProperties).
		Int("compliance_score", result.Compliance.Score).
		Msg("upload parsed")

	if req.Persist && parseResult.Success {
		saved, err := p.persist(ctx, req, result)
		if err != nil {
			log.Error().Err(err).Msg("persisting upload failed")
			return result, err
		}
		result.SavedRecords = saved
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, req Request, result *Result) (int, error) {
	if p.db == nil {
		return 0, fmt.Errorf("persistence requested but no storage configured")
	}

	parseResult := result.Parse
	stored := make([]storage.StoredRecord, 0, len(parseResult.Data))
	for i := range parseResult.Data {
		rec, err := toStored(req.ProjectID, result.RunID, i, &parseResult.Data[i])
		if err != nil {
			return 0, err
		}
		stored = append(stored, rec)
	}

	stats := parseResult.ValidationStats
	run := &storage.ParseRun{
		ID:                result.RunID,
		ProjectID:         req.ProjectID,
		Filename:          req.Filename,
		ContentSHA256:     result.ContentSHA,
		DetectedFormat:    string(parseResult.DetectedFormat),
		FormatConfidence:  parseResult.FormatConfidence,
		MappingConfidence: parseResult.Confidence,
		TotalRows:         parseResult.TotalRows,
		ValidRows:         parseResult.ValidRows,
		ParsedRows:        stats.SuccessfullyParsed,
		SoldRows:          stats.SoldProperties,
		SkippedRows:       parseResult.TotalRows - stats.SuccessfullyParsed,
		ComplianceScore:   result.Compliance.Score,
		ComplianceValid:   result.Compliance.Valid,
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upload transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The run row goes first: records carry its foreign key.
	if err := storage.NewRunRepository(tx).Create(ctx, run); err != nil {
		return 0, fmt.Errorf("create parse run: %w", err)
	}
	if err := storage.BulkInsertTx(ctx, tx, stored); err != nil {
		return 0, fmt.Errorf("bulk insert records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upload: %w", err)
	}

	return len(stored), nil
}

func toStored(projectID, runID uuid.UUID, row int, rec *parser.PropertyRecord) (storage.StoredRecord, error) {
	raw, err := json.Marshal(rec.Raw)
	if err != nil {
		return storage.StoredRecord{}, fmt.Errorf("marshal raw row: %w", err)
	}

	number := ""
	if rec.PropertyNumber != nil {
		number = *rec.PropertyNumber
	}

	return storage.StoredRecord{
		ID:             storage.RecordID(projectID, number, row),
		ProjectID:      projectID,
		RunID:          runID,
		PropertyNumber: nullStr(rec.PropertyNumber),
		PropertyType:   nullStr(rec.PropertyType),
		Area:           nullFloat(rec.Area),
		PricePerM2:     nullFloat(rec.PricePerM2),
		TotalPrice:     nullFloat(rec.TotalPrice),
		FinalPrice:     nullFloat(rec.FinalPrice),
		Status:         nullStr(rec.Status),
		Wojewodztwo:    nullStr(rec.Wojewodztwo),
		Powiat:         nullStr(rec.Powiat),
		Gmina:          nullStr(rec.Gmina),
		Miejscowosc:    nullStr(rec.Miejscowosc),
		Ulica:          nullStr(rec.Ulica),
		KodPocztowy:    nullStr(rec.KodPocztowy),
		Raw:            raw,
	}, nil
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

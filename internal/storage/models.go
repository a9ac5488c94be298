// Package storage provides database models and repositories for ofertomat.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project is one developer investment that uploads are scoped to.
type Project struct {
	ID           uuid.UUID
	Name         string
	DeveloperNIP string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ParseRun is the persisted accounting of one upload.
type ParseRun struct {
	ID                uuid.UUID
	ProjectID         uuid.UUID
	Filename          string
	ContentSHA256     string
	DetectedFormat    string
	FormatConfidence  float64
	MappingConfidence float64
	TotalRows         int
	ValidRows         int
	ParsedRows        int
	SoldRows          int
	SkippedRows       int
	ComplianceScore   int
	ComplianceValid   bool
	CreatedAt         time.Time
}

// StoredRecord is one accepted listing, flattened for querying plus the raw
// row kept as JSON so nothing from the source file is lost.
type StoredRecord struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	RunID          uuid.UUID
	PropertyNumber sql.NullString
	PropertyType   sql.NullString
	Area           sql.NullFloat64
	PricePerM2     sql.NullFloat64
	TotalPrice     sql.NullFloat64
	FinalPrice     sql.NullFloat64
	Status         sql.NullString
	Wojewodztwo    sql.NullString
	Powiat         sql.NullString
	Gmina          sql.NullString
	Miejscowosc    sql.NullString
	Ulica          sql.NullString
	KodPocztowy    sql.NullString
	Raw            json.RawMessage
	CreatedAt      time.Time
}

// RecordID derives a deterministic ID for a stored record, so re-importing
// the same file upserts instead of duplicating.
func RecordID(projectID uuid.UUID, propertyNumber string, row int) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	data := fmt.Sprintf("%s:%s:%d", projectID, propertyNumber, row)
	return uuid.NewSHA1(namespace, []byte(data))
}

package upload

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofertomat/ofertomat/internal/observability"
	"github.com/ofertomat/ofertomat/internal/parser"
	"github.com/ofertomat/ofertomat/internal/storage"
)

const sampleCSV = `Nr lokalu;Powierzchnia użytkowa;Cena za m2;Cena całkowita;Status
A.1.01;50,5;9000;454500;dostępne
A.1.02;48;X;;sprzedane
`

func TestPipelineProcessParseOnly(t *testing.T) {
	pipeline := NewPipeline(observability.Nop(), nil)

	result, err := pipeline.Process(context.Background(), Request{
		ProjectID: uuid.New(),
		Filename:  "oferta.csv",
		Content:   []byte(sampleCSV),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Len(t, result.ContentSHA, 64)
	require.NotNil(t, result.Parse)
	assert.True(t, result.Parse.Success)
	assert.Equal(t, 1, result.Parse.ValidationStats.SuccessfullyParsed)
	require.NotNil(t, result.Compliance)
	assert.Greater(t, result.Compliance.Score, 0)
	assert.Equal(t, 0, result.SavedRecords)
	assert.Greater(t, result.Duration.Nanoseconds(), int64(0))
}

func TestPipelineProcessStructuralError(t *testing.T) {
	pipeline := NewPipeline(observability.Nop(), nil)

	result, err := pipeline.Process(context.Background(), Request{
		ProjectID: uuid.New(),
		Filename:  "pusty.csv",
		Content:   []byte("  "),
	})
	require.Error(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Parse)
	assert.False(t, result.Parse.Success)
}

func TestPipelineContentSHAIsStable(t *testing.T) {
	pipeline := NewPipeline(observability.Nop(), nil)

	first, err := pipeline.Process(context.Background(), Request{
		ProjectID: uuid.New(),
		Filename:  "oferta.csv",
		Content:   []byte(sampleCSV),
	})
	require.NoError(t, err)
	second, err := pipeline.Process(context.Background(), Request{
		ProjectID: uuid.New(),
		Filename:  "oferta.csv",
		Content:   []byte(sampleCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ContentSHA, second.ContentSHA)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestPipelinePersistsUnderForeignKeys(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(ctx, db))

	project := &storage.Project{Name: "Osiedle Parkowe"}
	require.NoError(t, storage.NewProjectRepository(db).Create(ctx, project))

	pipeline := NewPipeline(observability.Nop(), db)
	result, err := pipeline.Process(ctx, Request{
		ProjectID: project.ID,
		Filename:  "oferta.csv",
		Content:   []byte(sampleCSV),
		Persist:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedRecords)

	runs, err := storage.NewRunRepository(db).ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, 1, runs[0].ParsedRows)

	records, err := storage.NewRecordRepository(db).ListByRun(ctx, result.RunID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A.1.01", records[0].PropertyNumber.String)
}

func TestPipelinePersistWithoutStorage(t *testing.T) {
	pipeline := NewPipeline(observability.Nop(), nil)

	_, err := pipeline.Process(context.Background(), Request{
		ProjectID: uuid.New(),
		Filename:  "oferta.csv",
		Content:   []byte(sampleCSV),
		Persist:   true,
	})
	assert.Error(t, err)
}

func TestToStored(t *testing.T) {
	projectID := uuid.New()
	runID := uuid.New()

	area := 50.5
	number := "A.1.01"
	status := parser.StatusAvailable
	rec := parser.PropertyRecord{
		PropertyNumber: &number,
		Area:           &area,
		Status:         &status,
		Raw:            map[string]string{"Nr lokalu": "A.1.01"},
	}

	stored, err := toStored(projectID, runID, 0, &rec)
	require.NoError(t, err)

	assert.Equal(t, projectID, stored.ProjectID)
	assert.Equal(t, runID, stored.RunID)
	assert.Equal(t, "A.1.01", stored.PropertyNumber.String)
	assert.True(t, stored.Area.Valid)
	assert.Equal(t, 50.5, stored.Area.Float64)
	assert.NotEmpty(t, stored.Raw)

	// Same project, identifier and row always derive the same ID.
	again, err := toStored(projectID, runID, 0, &rec)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, again.ID)
}

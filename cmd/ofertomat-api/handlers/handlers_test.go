package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofertomat/ofertomat/internal/cache"
	"github.com/ofertomat/ofertomat/internal/config"
	"github.com/ofertomat/ofertomat/internal/observability"
	"github.com/ofertomat/ofertomat/internal/storage"
	"github.com/ofertomat/ofertomat/internal/upload"
)

const sampleCSV = `Nr lokalu;Powierzchnia użytkowa;Cena za m2;Cena całkowita;Status
A.1.01;50,5;9000;454500;dostępne
A.1.02;48;X;;sprzedane
`

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	router, _ := testRouterWithCache(t)
	return router
}

func testRouterWithCache(t *testing.T) (http.Handler, cache.Client) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(context.Background(), db))

	cacheClient := cache.NewMemoryClient(16)
	h := New(Deps{
		Config:   config.DefaultConfig(),
		Logger:   observability.Nop(),
		Pipeline: upload.NewPipeline(observability.Nop(), db),
		Cache:    cacheClient,
		Projects: storage.NewProjectRepository(db),
		Runs:     storage.NewRunRepository(db),
	})

	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Post("/api/v1/projects", h.CreateProject)
	r.Route("/api/v1/projects/{projectID}", func(r chi.Router) {
		r.Get("/", h.GetProject)
		r.Post("/uploads", h.Upload)
		r.Get("/runs", h.ListRuns)
	})
	return r, cacheClient
}

func createProject(t *testing.T, router http.Handler) string {
	t.Helper()

	body := bytes.NewBufferString(`{"name":"Osiedle Testowe","developer_nip":"1234567890"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateAndGetProject(t *testing.T) {
	router := testRouter(t)
	id := createProject(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+id+"/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Osiedle Testowe")
}

func TestCreateProjectValidation(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload(t *testing.T) {
	router := testRouter(t)
	id := createProject(t, router)

	req := uploadRequest(t, "/api/v1/projects/"+id+"/uploads", "oferta.csv", sampleCSV)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RunID        string `json:"run_id"`
		Success      bool   `json:"success"`
		ParsedRows   int    `json:"parsed_rows"`
		SoldRows     int    `json:"sold_rows"`
		SavedRecords int    `json:"saved_records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1, resp.ParsedRows)
	assert.Equal(t, 1, resp.SoldRows)
	assert.Equal(t, 1, resp.SavedRecords)

	// The run is now listed for the project.
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+id+"/runs", nil))
	assert.Equal(t, http.StatusOK, listRec.Code)
	assert.Contains(t, listRec.Body.String(), "oferta.csv")
}

func TestUploadDryRunUsesCache(t *testing.T) {
	router := testRouter(t)
	id := createProject(t, router)
	target := "/api/v1/projects/" + id + "/uploads?dry_run=true"

	first := httptest.NewRecorder()
	router.ServeHTTP(first, uploadRequest(t, target, "oferta.csv", sampleCSV))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, uploadRequest(t, target, "oferta.csv", sampleCSV))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestUploadDryRunAnsweredBeforeParsing(t *testing.T) {
	router, cacheClient := testRouterWithCache(t)
	id := createProject(t, router)
	target := "/api/v1/projects/" + id + "/uploads?dry_run=true"

	// Seed the cache under the content hash with a body the engine could
	// never produce. Getting it back proves the lookup happens before any
	// parsing, keyed on the raw bytes alone.
	sum := sha256.Sum256([]byte(sampleCSV))
	key := "parse:" + hex.EncodeToString(sum[:]) + ":"
	sentinel := `{"success":true,"detected_format":"zaszufladkowany"}`
	require.NoError(t, cacheClient.Set(context.Background(), key, []byte(sentinel), time.Minute))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, target, "oferta.csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Cache"))
	assert.Equal(t, sentinel, rec.Body.String())
}

func TestUploadUnknownProject(t *testing.T) {
	router := testRouter(t)

	req := uploadRequest(t, "/api/v1/projects/0e07ec1f-81b3-4c4b-8d0c-63d473692c27/uploads", "oferta.csv", sampleCSV)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadInvalidProjectID(t *testing.T) {
	router := testRouter(t)

	req := uploadRequest(t, "/api/v1/projects/nie-uuid/uploads", "oferta.csv", sampleCSV)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadUnmappableFile(t *testing.T) {
	router := testRouter(t)
	id := createProject(t, router)

	req := uploadRequest(t, "/api/v1/projects/"+id+"/uploads", "plik.csv", "Kolumna1;Kolumna2\nfoo;bar\n")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unmapped field")
}

func TestUploadMissingFilePart(t *testing.T) {
	router := testRouter(t)
	id := createProject(t, router)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("sheet", "Oferty"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+id+"/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

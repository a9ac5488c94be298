package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ofertomat/ofertomat/internal/cache"
	"github.com/ofertomat/ofertomat/internal/parser"
	"github.com/ofertomat/ofertomat/internal/storage"
	"github.com/ofertomat/ofertomat/internal/upload"
)

type uploadResponse struct {
	RunID            string                          `json:"run_id,omitempty"`
	Success          bool                            `json:"success"`
	DetectedFormat   parser.Format                   `json:"detected_format"`
	FormatConfidence float64                         `json:"format_confidence"`
	Confidence       float64                         `json:"mapping_confidence"`
	Mappings         map[string]string               `json:"mappings"`
	Suggestions      map[string][]parser.HeaderMatch `json:"suggestions,omitempty"`
	Errors           []string                        `json:"errors,omitempty"`
	Warnings         []string                        `json:"warnings,omitempty"`
	TotalRows        int                             `json:"total_rows"`
	ValidRows        int                             `json:"valid_rows"`
	ParsedRows       int                             `json:"parsed_rows"`
	SoldRows         int                             `json:"sold_rows"`
	SkippedRows      int                             `json:"skipped_rows"`
	RowIssues        []parser.RowIssue               `json:"row_issues,omitempty"`
	ComplianceScore  int                             `json:"compliance_score"`
	ComplianceValid  bool                            `json:"compliance_valid"`
	SavedRecords     int                             `json:"saved_records"`
}

// Upload ingests one listing export for a project. Multipart form with a
// "file" part and an optional "sheet" value. With ?dry_run=true nothing is
// persisted and identical content is answered from cache.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	if _, err := h.projects.GetByID(r.Context(), projectID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
		} else {
			h.logger.Error().Err(err).Msg("loading project failed")
			writeError(w, http.StatusInternalServerError, "failed to load project")
		}
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	sheet := r.FormValue("sheet")
	if sheet == "" {
		sheet = h.cfg.Upload.DefaultSheet
	}
	dryRun := r.URL.Query().Get("dry_run") == "true"

	// Dry runs are answered from cache on identical content, before any
	// parsing happens: same bytes, same engine, same outcome.
	sum := sha256.Sum256(content)
	cacheKey := "parse:" + hex.EncodeToString(sum[:]) + ":" + sheet
	if dryRun {
		if body, cerr := h.cache.Get(r.Context(), cacheKey); cerr == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(body)
			return
		} else if !errors.Is(cerr, cache.ErrCacheMiss) {
			h.logger.Warn().Err(cerr).Msg("cache lookup failed")
		}
	}

	result, err := h.pipeline.Process(r.Context(), upload.Request{
		ProjectID: projectID,
		Filename:  header.Filename,
		SheetName: sheet,
		Content:   content,
		Persist:   !dryRun,
	})
	if err != nil && result.Parse == nil {
		h.logger.Error().Err(err).Msg("processing upload failed")
		writeError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}

	resp := toUploadResponse(result, dryRun)

	status := http.StatusOK
	if err != nil || !result.Parse.Success {
		status = http.StatusUnprocessableEntity
	}

	if dryRun && status == http.StatusOK {
		if body, merr := json.Marshal(resp); merr == nil {
			if cerr := h.cache.Set(r.Context(), cacheKey, body, h.cfg.Cache.TTL); cerr != nil {
				h.logger.Warn().Err(cerr).Msg("caching parse result failed")
			}
		}
	}

	writeJSON(w, status, resp)
}

func toUploadResponse(result *upload.Result, dryRun bool) uploadResponse {
	pr := result.Parse
	stats := pr.ValidationStats

	resp := uploadResponse{
		Success:          pr.Success,
		DetectedFormat:   pr.DetectedFormat,
		FormatConfidence: pr.FormatConfidence,
		Confidence:       pr.Confidence,
		Mappings:         pr.Mappings,
		Suggestions:      pr.Suggestions,
		Errors:           pr.Errors,
		Warnings:         pr.Warnings,
		TotalRows:        pr.TotalRows,
		ValidRows:        pr.ValidRows,
		ParsedRows:       stats.SuccessfullyParsed,
		SoldRows:         stats.SoldProperties,
		SkippedRows:      stats.EmptyRows + stats.TooFewColumns + stats.InvalidCriticalData,
		RowIssues:        stats.Details,
		SavedRecords:     result.SavedRecords,
	}
	if result.Compliance != nil {
		resp.ComplianceScore = result.Compliance.Score
		resp.ComplianceValid = result.Compliance.Valid
	}
	if !dryRun {
		resp.RunID = result.RunID.String()
	}
	return resp
}

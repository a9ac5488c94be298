package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ofertomat/ofertomat/internal/storage"
)

type createProjectRequest struct {
	Name         string `json:"name"`
	DeveloperNIP string `json:"developer_nip"`
}

type projectResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DeveloperNIP string    `json:"developer_nip,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateProject registers a new project for uploads.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	project := &storage.Project{
		Name:         req.Name,
		DeveloperNIP: req.DeveloperNIP,
	}
	if err := h.projects.Create(r.Context(), project); err != nil {
		h.logger.Error().Err(err).Msg("creating project failed")
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("loading project failed")
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

type runResponse struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	ContentSHA256    string    `json:"content_sha256"`
	DetectedFormat   string    `json:"detected_format"`
	FormatConfidence float64   `json:"format_confidence"`
	TotalRows        int       `json:"total_rows"`
	ParsedRows       int       `json:"parsed_rows"`
	SoldRows         int       `json:"sold_rows"`
	SkippedRows      int       `json:"skipped_rows"`
	ComplianceScore  int       `json:"compliance_score"`
	ComplianceValid  bool      `json:"compliance_valid"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListRuns returns a project's parse runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromURL(w, r)
	if !ok {
		return
	}

	runs, err := h.runs.ListByProject(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing runs failed")
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runResponse{
			ID:               run.ID.String(),
			Filename:         run.Filename,
			ContentSHA256:    run.ContentSHA256,
			DetectedFormat:   run.DetectedFormat,
			FormatConfidence: run.FormatConfidence,
			TotalRows:        run.TotalRows,
			ParsedRows:       run.ParsedRows,
			SoldRows:         run.SoldRows,
			SkippedRows:      run.SkippedRows,
			ComplianceScore:  run.ComplianceScore,
			ComplianceValid:  run.ComplianceValid,
			CreatedAt:        run.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": out})
}

func toProjectResponse(p *storage.Project) projectResponse {
	return projectResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		DeveloperNIP: p.DeveloperNIP,
		CreatedAt:    p.CreatedAt,
	}
}

func projectIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project ID")
		return uuid.Nil, false
	}
	return id, true
}

// Package handlers implements the HTTP handlers of the ofertomat API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ofertomat/ofertomat/internal/cache"
	"github.com/ofertomat/ofertomat/internal/config"
	"github.com/ofertomat/ofertomat/internal/observability"
	"github.com/ofertomat/ofertomat/internal/storage"
	"github.com/ofertomat/ofertomat/internal/upload"
)

// Deps carries everything the handlers need.
type Deps struct {
	Config   *config.Config
	Logger   *observability.Logger
	Pipeline *upload.Pipeline
	Cache    cache.Client
	Projects *storage.ProjectRepository
	Runs     *storage.RunRepository
}

// Handler serves the API routes.
type Handler struct {
	cfg      *config.Config
	logger   *observability.Logger
	pipeline *upload.Pipeline
	cache    cache.Client
	projects *storage.ProjectRepository
	runs     *storage.RunRepository
}

// New creates a Handler.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:      deps.Config,
		logger:   deps.Logger,
		pipeline: deps.Pipeline,
		cache:    deps.Cache,
		projects: deps.Projects,
		runs:     deps.Runs,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ofertomat/ofertomat/cmd/ofertomat-api/handlers"
	"github.com/ofertomat/ofertomat/internal/cache"
	"github.com/ofertomat/ofertomat/internal/config"
	"github.com/ofertomat/ofertomat/internal/observability"
	"github.com/ofertomat/ofertomat/internal/storage"
	"github.com/ofertomat/ofertomat/internal/upload"
)

type routerDeps struct {
	cfg      *config.Config
	logger   *observability.Logger
	pipeline *upload.Pipeline
	cache    cache.Client
	projects *storage.ProjectRepository
	runs     *storage.RunRepository
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.cfg.Server.WriteTimeout))

	h := handlers.New(handlers.Deps{
		Config:   deps.cfg,
		Logger:   deps.logger,
		Pipeline: deps.pipeline,
		Cache:    deps.cache,
		Projects: deps.projects,
		Runs:     deps.runs,
	})

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/projects", h.CreateProject)
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/", h.GetProject)
			r.Post("/uploads", h.Upload)
			r.Get("/runs", h.ListRuns)
		})
	})

	return r
}

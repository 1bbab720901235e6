package api

import (
	"net/http"
	"time"

	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/pipeline"
	classifyintent "shopping-agent/internal/workers/conversation/classify-intent"
	extractpreferences "shopping-agent/internal/workers/preference/extract-preferences"
	synthesizeresponse "shopping-agent/internal/workers/response/synthesize-response"
	filterproducts "shopping-agent/internal/workers/search/filter-products"
	rankproducts "shopping-agent/internal/workers/search/rank-products"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler exposes the pipeline over HTTP.
type Handler struct {
	pipeline *pipeline.Orchestrator
	version  string
	logger   logger.Logger
}

func New(p *pipeline.Orchestrator, version string, log logger.Logger) *Handler {
	return &Handler{
		pipeline: p,
		version:  version,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// NewRouter mounts the handler under the standard middleware stack.
func NewRouter(h *Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/health", h.handleHealth)
	r.Route("/api", h.RegisterRoutes)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/stats", h.handleStats)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(requireSessionID)
			r.Get("/", h.handleGetSession)
			r.Delete("/", h.handleDeleteSession)
			r.Get("/summary", h.handleSessionSummary)
			r.Get("/history", h.handleSearchHistory)
			r.Patch("/settings", h.handleUpdateSettings)

			r.Get("/favorites", h.handleListFavorites)
			r.Post("/favorites", h.handleAddFavorite)
			r.Delete("/favorites/{productID}", h.handleRemoveFavorite)

			r.Get("/preferences", h.handleGetPreferences)
			r.Delete("/preferences", h.handleClearPreferences)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/search", h.handleSearch)
		r.Get("/suggest", h.handleSuggest)
		r.Get("/popular", h.handlePopular)
		r.Get("/recommended", h.handleRecommended)
		r.Post("/compare", h.handleCompare)
		r.Get("/{productID}", h.handleGetProduct)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"stages": map[string]bool{
			classifyintent.TaskType:     true,
			extractpreferences.TaskType: true,
			filterproducts.TaskType:     true,
			rankproducts.TaskType:       true,
			synthesizeresponse.TaskType: true,
		},
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pipeline.Stats(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

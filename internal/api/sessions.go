package api

import (
	"net/http"

	"shopping-agent/internal/pipeline"

	"github.com/go-chi/chi/v5"
)

type favoriteRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.pipeline.CreateSession(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sess.ID,
		"status":     "created",
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := h.pipeline.GetSession(r.Context(), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"data":       sess,
	})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.pipeline.DeleteSession(r.Context(), id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"status":     "deleted",
	})
}

func (h *Handler) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.pipeline.SessionSummary(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (h *Handler) handleSearchHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	history, err := h.pipeline.SearchHistory(r.Context(), chi.URLParam(r, "sessionID"), limit)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch pipeline.SettingsPatch
	if err := decodeBody(r, &patch); err != nil {
		h.respondErr(w, r, err)
		return
	}
	settings, err := h.pipeline.UpdateSettings(r.Context(), chi.URLParam(r, "sessionID"), patch)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// ==========================
// Favorites
// ==========================

func (h *Handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.pipeline.ListFavorites(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": favs})
}

func (h *Handler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	favs, err := h.pipeline.AddFavorite(r.Context(), chi.URLParam(r, "sessionID"), req.ProductID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "added",
		"product_id": req.ProductID,
		"favorites":  favs,
	})
}

func (h *Handler) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if err := h.pipeline.RemoveFavorite(r.Context(), chi.URLParam(r, "sessionID"), productID); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "removed",
		"product_id": productID,
	})
}

// ==========================
// Preferences
// ==========================

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	view, err := h.pipeline.Preferences(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleClearPreferences(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.ClearPreferences(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

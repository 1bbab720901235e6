package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type compareRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// handleSearch takes q and an optional session_id whose preferences narrow the search.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID != "" && !validSessionID(sessionID) {
		h.respondErr(w, r, errInvalidSessionID())
		return
	}

	result, err := h.pipeline.SearchProducts(r.Context(), sessionID, r.URL.Query().Get("q"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.pipeline.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (h *Handler) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	products, err := h.pipeline.Popular(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) handleRecommended(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	products, err := h.pipeline.Recommended(r.Context(), limit)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	report, err := h.pipeline.Compare(r.Context(), req.ProductIDs)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.pipeline.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

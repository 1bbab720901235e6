package api

import "net/http"

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondErr(w, r, err)
		return
	}
	if req.SessionID != "" && !validSessionID(req.SessionID) {
		h.respondErr(w, r, errInvalidSessionID())
		return
	}

	result, err := h.pipeline.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

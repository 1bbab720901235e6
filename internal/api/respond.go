package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	invalidBody      = "リクエストの形式が正しくありません"
	invalidSessionID = "無効なセッションIDです"
	internalFailure  = "内部エラーが発生しました"
)

type errorResponse struct {
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code"`
	Details string              `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps validation to 400, lookups to 404 and everything else to 500.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.logger.Error("request failed", map[string]interface{}{
			"path":      r.URL.Path,
			"requestId": middleware.GetReqID(r.Context()),
			"code":      apperrors.CodeOf(err),
			"error":     err,
		})
	}
	respondError(w, err)
}

// respondError hides the cause of internal failures from the client.
func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: internalFailure, Code: apperrors.CodeOf(err)}
	if status != http.StatusInternalServerError {
		resp.Error = err.Error()
		var se *apperrors.StandardError
		if errors.As(err, &se) {
			resp.Error = se.Message
			resp.Details = se.Details
		}
	}
	respondJSON(w, status, resp)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError(invalidBody)
	}
	return nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError(key + " must be a non-negative integer")
	}
	return n, nil
}

func errInvalidSessionID() error {
	return apperrors.NewValidationError(invalidSessionID)
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// requireSessionID rejects session routes whose id is not a UUID.
func requireSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validSessionID(chi.URLParam(r, "sessionID")) {
			respondError(w, errInvalidSessionID())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request handled", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"requestId":  middleware.GetReqID(r.Context()),
				"durationMs": time.Since(start).Milliseconds(),
			})
		})
	}
}

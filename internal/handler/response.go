package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so the API has one
// success shape per resource and exactly one error shape:
//
//	{"error": "not_found", "message": "company not found with handle BBF"}
//
// Success bodies wrap the payload in a key named after the resource:
//
//	{"company": {...}}   {"jobs": [...]}   {"token": "..."}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/jobly/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body. Once Encode writes,
// later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation   → 400 validation_error
//	apperror.ErrUnauthorized → 401 unauthorized
//	apperror.ErrForbidden    → 403 forbidden
//	apperror.ErrNotFound     → 404 not_found
//	apperror.ErrConflict     → 409 conflict
//	anything else            → 500 internal_error (logged, never echoed)
//
// errors.As walks the wrap chain, so a service returning
// fmt.Errorf("updating company: %w", apperror.NotFound(...)) still maps to 404
// with the AppError's own message.
//
// LOGGING:
// 500s are logged at Error with the raw error, which may hold SQL or file
// paths and so never reaches the client. Client errors are logged at Debug;
// the access log already records their status.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, errorType := statusFor(err)

	var appErr *apperror.AppError
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
			requestAttrs(r, slog.String("error", err.Error()))...,
		)
		writeInternalError(w)
		return
	}

	logger.LogAttrs(r.Context(), slog.LevelDebug, "request rejected",
		requestAttrs(r,
			slog.Int("status", status),
			slog.String("error", appErr.Message),
			slog.String("field", appErr.Field),
		)...,
	)
	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: appErr.Message,
	})
}

// requestAttrs prefixes attrs with the request id, method and path.
func requestAttrs(r *http.Request, attrs ...slog.Attr) []slog.Attr {
	return append([]slog.Attr{
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}, attrs...)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "Not Found",
	})
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:   "method_not_allowed",
		Message: "Method Not Allowed",
	})
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flashboard/board-service/internal/domain"
)

// JSON writes raw JSON with Content-Type.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes the uniform mutating envelope:
// {"success":true,"message":"...", ...extra}
func Success(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, status, body)
}

// Error converts a domain error into the failure envelope:
// {"success":false,"message":"...","code":"...","meta":{...}}
// Non-domain errors are treated as internal errors without leaking details.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"
	var meta map[string]string

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		code = de.Code
		message = de.Message
		meta = de.Meta
	}

	body := map[string]any{
		"success": false,
		"message": message,
		"code":    code,
	}
	if len(meta) > 0 {
		body["meta"] = meta
	}
	JSON(w, status, body)
}

// statusFromKind maps domain error kinds to HTTP status codes.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	case domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{
		Status:    code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// statusFor maps a service error to an HTTP status and client message.
// Anything unrecognised is a 500 whose cause is not exposed.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, common.ErrUnauthorized.Error()
	default:
		return http.StatusInternalServerError, common.ErrInternal.Error()
	}
}

func writeServiceErr(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeErr(w, code, msg)
}

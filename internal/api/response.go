package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"musicschool-api/pkg/apperr"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeError maps a domain error to its response category. Unknown
// errors become a 500 with a generic message; the detail stays in the
// log.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, apperr.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, apperr.ErrQuotaExceeded):
		status, code = http.StatusConflict, "QUOTA_EXCEEDED"
	case errors.Is(err, apperr.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, apperr.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, apperr.ErrLocked):
		status, code = http.StatusLocked, "LOCKED"
	default:
		logger.Error("Request failed", zap.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: errorBody{Code: "INTERNAL", Message: "internal error"}})
		return
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"musicschool-api/pkg/apperr"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperr.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", apperr.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"conflict", apperr.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"quota", apperr.ErrQuotaExceeded, http.StatusConflict, "QUOTA_EXCEEDED"},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"locked", apperr.ErrLocked, http.StatusLocked, "LOCKED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(w, r, zap.NewNop(), fmt.Errorf("context: %w", tc.err))

			assert.Equal(t, tc.status, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(w, r, zap.NewNop(), fmt.Errorf("connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "10.0.0.5")
}

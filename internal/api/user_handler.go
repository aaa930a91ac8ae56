package api

import (
	"fmt"
	"net/http"

	"musicschool-api/pkg/apperr"
)

// getMe handles GET /me: the authenticated caller's own user record.
func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	user, err := h.users.GetByID(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if user == nil {
		writeError(w, r, h.logger, fmt.Errorf("user %s: %w", caller.UserID, apperr.ErrNotFound))
		return
	}

	writeJSON(w, r, http.StatusOK, user)
}

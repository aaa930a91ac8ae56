package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

type bookSessionRequest struct {
	SlotID       uuid.UUID `json:"slot_id" validate:"required"`
	InstrumentID uuid.UUID `json:"instrument_id" validate:"required"`
}

// bookSession handles POST /sessions. The caller books for themselves.
func (h *Handler) bookSession(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	if caller.Role != model.RoleStudent {
		writeError(w, r, h.logger, fmt.Errorf("only students book sessions: %w", apperr.ErrForbidden))
		return
	}

	var req bookSessionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("decode request: %w", apperr.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return
	}

	session, err := h.booking.Book(r.Context(), caller.UserID, req.SlotID, req.InstrumentID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, session)
}

// listSessions handles GET /sessions: the caller's own upcoming
// sessions, by their role.
func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	role := caller.Role
	if caller.IsAdmin() {
		// Admins may inspect either side of another participant.
		role = model.Role(r.URL.Query().Get("role"))
	}

	participantID := caller.UserID
	if caller.IsAdmin() {
		id, err := uuid.Parse(r.URL.Query().Get("participant_id"))
		if err != nil {
			writeError(w, r, h.logger, fmt.Errorf("invalid participant_id: %w", apperr.ErrInvalidInput))
			return
		}
		participantID = id
	}

	sessions, err := h.booking.SessionsFor(r.Context(), participantID, role)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if sessions == nil {
		sessions = []*model.Session{}
	}
	writeJSON(w, r, http.StatusOK, sessions)
}

// getSession handles GET /sessions/{sessionID}; participants and
// admins only.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	sessionID, err := parseID(r, "sessionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.booking.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	isParticipant := caller.UserID == session.StudentID || caller.UserID == session.ProfessorID
	if !isParticipant && !caller.IsAdmin() {
		writeError(w, r, h.logger, fmt.Errorf("caller is not a session participant: %w", apperr.ErrForbidden))
		return
	}

	writeJSON(w, r, http.StatusOK, session)
}

// cancelSession handles PUT /sessions/{sessionID}/cancel.
func (h *Handler) cancelSession(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	sessionID, err := parseID(r, "sessionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.booking.Cancel(r.Context(), caller, sessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, session)
}

// completeSession handles PUT /sessions/{sessionID}/complete.
func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	sessionID, err := parseID(r, "sessionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.booking.Complete(r.Context(), caller, sessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, session)
}

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"musicschool-api/pkg/apperr"
)

type updateProfessorRequest struct {
	Bio           string      `json:"bio"`
	HourlyRate    float64     `json:"hourly_rate" validate:"min=0"`
	InstrumentIDs []uuid.UUID `json:"instrument_ids"`
}

// listProfessors handles GET /professors.
func (h *Handler) listProfessors(w http.ResponseWriter, r *http.Request) {
	professors, err := h.professors.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, professors)
}

// getProfessor handles GET /professors/{professorID}.
func (h *Handler) getProfessor(w http.ResponseWriter, r *http.Request) {
	professorID, err := parseID(r, "professorID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	professor, err := h.professors.GetByID(r.Context(), professorID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, professor)
}

// updateProfessor handles PUT /professors/{professorID}; the professor
// themselves or an admin.
func (h *Handler) updateProfessor(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	professorID, err := parseID(r, "professorID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if caller.UserID != professorID && !caller.IsAdmin() {
		writeError(w, r, h.logger, fmt.Errorf("caller may not edit this profile: %w", apperr.ErrForbidden))
		return
	}

	var req updateProfessorRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("decode request: %w", apperr.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return
	}

	professor, err := h.professors.UpdateProfile(r.Context(), professorID, req.Bio, req.HourlyRate, req.InstrumentIDs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, professor)
}

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"musicschool-api/pkg/apperr"
)

type createInstrumentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
}

// listInstruments handles GET /instruments.
func (h *Handler) listInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.instruments.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, instruments)
}

// getInstrument handles GET /instruments/{instrumentID}.
func (h *Handler) getInstrument(w http.ResponseWriter, r *http.Request) {
	instrumentID, err := parseID(r, "instrumentID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	instrument, err := h.instruments.GetByID(r.Context(), instrumentID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, instrument)
}

// createInstrument handles POST /instruments; catalog admins only.
func (h *Handler) createInstrument(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	if !caller.IsAdmin() {
		writeError(w, r, h.logger, fmt.Errorf("only admins manage the catalog: %w", apperr.ErrForbidden))
		return
	}

	var req createInstrumentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("decode request: %w", apperr.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return
	}

	instrument, err := h.instruments.Create(r.Context(), req.Name, req.Description, req.IconURL)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, instrument)
}

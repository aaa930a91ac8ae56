package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, apperr.ErrInvalidInput)
	}
	return date, nil
}

func parseClock(value string) (time.Time, error) {
	clock, err := time.ParseInLocation(timeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", value, apperr.ErrInvalidInput)
	}
	return clock, nil
}

func parseID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", param, apperr.ErrInvalidInput)
	}
	return id, nil
}

type availabilityRequest struct {
	Date  string `json:"date" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`

	// Admins may publish on behalf of a professor.
	ProfessorID *uuid.UUID `json:"professor_id,omitempty"`
}

type availabilityResponse struct {
	ID                uuid.UUID  `json:"id"`
	ProfessorID       uuid.UUID  `json:"professor_id"`
	Date              string     `json:"date"`
	Start             string     `json:"start"`
	End               string     `json:"end"`
	Booked            bool       `json:"booked"`
	BookedByStudentID *uuid.UUID `json:"booked_by_student_id,omitempty"`
}

func toAvailabilityResponse(slot *model.AvailabilitySlot) availabilityResponse {
	return availabilityResponse{
		ID:                slot.ID,
		ProfessorID:       slot.ProfessorID,
		Date:              slot.StartAt.Format(dateLayout),
		Start:             slot.StartAt.Format(timeLayout),
		End:               slot.EndAt.Format(timeLayout),
		Booked:            slot.Booked,
		BookedByStudentID: slot.BookedByStudentID,
	}
}

func toAvailabilityResponses(slots []*model.AvailabilitySlot) []availabilityResponse {
	out := make([]availabilityResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toAvailabilityResponse(slot))
	}
	return out
}

// listAvailability handles GET /professors/{professorID}/availability.
func (h *Handler) listAvailability(w http.ResponseWriter, r *http.Request) {
	professorID, err := parseID(r, "professorID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	slots, err := h.availability.ListAvailable(r.Context(), professorID, from, to)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toAvailabilityResponses(slots))
}

// publishAvailability handles POST /availability. The slot is
// published under the caller's own professor profile unless an admin
// names another professor in the body.
func (h *Handler) publishAvailability(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	if caller.Role != model.RoleProfessor && !caller.IsAdmin() {
		writeError(w, r, h.logger, fmt.Errorf("only professors publish availability: %w", apperr.ErrForbidden))
		return
	}

	var req availabilityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("decode request: %w", apperr.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	start, err := parseClock(req.Start)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	end, err := parseClock(req.End)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	professorID := caller.UserID
	if req.ProfessorID != nil {
		if !caller.IsAdmin() && *req.ProfessorID != caller.UserID {
			writeError(w, r, h.logger, fmt.Errorf("caller may not publish for another professor: %w", apperr.ErrForbidden))
			return
		}
		professorID = *req.ProfessorID
	}

	slot, err := h.availability.Publish(r.Context(), professorID, date, start, end)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toAvailabilityResponse(slot))
}

// rescheduleAvailability handles PUT /availability/{slotID}.
func (h *Handler) rescheduleAvailability(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	slotID, err := parseID(r, "slotID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.requireSlotOwner(r, caller, slotID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req availabilityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("decode request: %w", apperr.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	start, err := parseClock(req.Start)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	end, err := parseClock(req.End)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	slot, err := h.availability.Reschedule(r.Context(), slotID, date, start, end)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toAvailabilityResponse(slot))
}

// removeAvailability handles DELETE /availability/{slotID}.
func (h *Handler) removeAvailability(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	slotID, err := parseID(r, "slotID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.requireSlotOwner(r, caller, slotID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.availability.Remove(r.Context(), slotID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireSlotOwner rejects callers who neither own the slot nor hold
// the admin role.
func (h *Handler) requireSlotOwner(r *http.Request, caller model.Identity, slotID uuid.UUID) error {
	if caller.IsAdmin() {
		return nil
	}

	ownerID, err := h.availability.OwnerOf(r.Context(), slotID)
	if err != nil {
		return err
	}
	if ownerID != caller.UserID {
		return fmt.Errorf("caller does not own this slot: %w", apperr.ErrForbidden)
	}

	return nil
}

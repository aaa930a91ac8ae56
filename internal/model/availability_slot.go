package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a professor-published bookable time window.
// StartAt and EndAt are naive wall-clock timestamps on the same
// calendar day; no timezone normalization is applied anywhere.
type AvailabilitySlot struct {
	ID                uuid.UUID  `json:"id"`
	ProfessorID       uuid.UUID  `json:"professor_id"`
	StartAt           time.Time  `json:"start_at"`
	EndAt             time.Time  `json:"end_at"`
	Booked            bool       `json:"booked"`
	BookedByStudentID *uuid.UUID `json:"booked_by_student_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Overlaps reports whether two windows intersect under half-open
// interval semantics: back-to-back slots sharing a boundary do not
// overlap.
func (s *AvailabilitySlot) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && start.Before(s.EndAt)
}

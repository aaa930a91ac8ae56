package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// Session is a confirmed lesson booking. SlotID points at the claimed
// availability slot so cancellation can release it by primary key; the
// column is nullable because a released slot may later be deleted.
type Session struct {
	ID           uuid.UUID     `json:"id"`
	StudentID    uuid.UUID     `json:"student_id"`
	ProfessorID  uuid.UUID     `json:"professor_id"`
	InstrumentID uuid.UUID     `json:"instrument_id"`
	SlotID       *uuid.UUID    `json:"slot_id,omitempty"`
	SessionAt    time.Time     `json:"session_at"`
	Status       SessionStatus `json:"status"`
	BookedAt     time.Time     `json:"booked_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is write-once: no update or delete path is exposed.
// SessionID records the completed session that made the student
// eligible at admission time.
type Review struct {
	ID          uuid.UUID  `json:"id"`
	ProfessorID uuid.UUID  `json:"professor_id"`
	StudentID   uuid.UUID  `json:"student_id"`
	SessionID   *uuid.UUID `json:"session_id,omitempty"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"created_at"`
}

package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"musicschool-api/internal/model"
)

// EventPublisher notifies downstream consumers (notifications, audit)
// about booking lifecycle transitions. Publishing is fire-and-forget;
// failures never affect the originating operation.
type EventPublisher interface {
	PublishSessionBooked(session *model.Session) error
	PublishSessionCancelled(session *model.Session) error
	PublishReviewAdded(review *model.Review) error
}

type SessionEvent struct {
	EventType   string    `json:"event_type"`
	SessionID   uuid.UUID `json:"session_id"`
	StudentID   uuid.UUID `json:"student_id"`
	ProfessorID uuid.UUID `json:"professor_id"`
	SessionAt   time.Time `json:"session_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type ReviewEvent struct {
	EventType   string    `json:"event_type"`
	ReviewID    uuid.UUID `json:"review_id"`
	ProfessorID uuid.UUID `json:"professor_id"`
	StudentID   uuid.UUID `json:"student_id"`
	Rating      int       `json:"rating"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

func (p *NatsPublisher) publish(subject string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}

func (p *NatsPublisher) PublishSessionBooked(session *model.Session) error {
	return p.publish("session.booked", SessionEvent{
		EventType:   "session.booked",
		SessionID:   session.ID,
		StudentID:   session.StudentID,
		ProfessorID: session.ProfessorID,
		SessionAt:   session.SessionAt,
		OccurredAt:  time.Now(),
	})
}

func (p *NatsPublisher) PublishSessionCancelled(session *model.Session) error {
	return p.publish("session.cancelled", SessionEvent{
		EventType:   "session.cancelled",
		SessionID:   session.ID,
		StudentID:   session.StudentID,
		ProfessorID: session.ProfessorID,
		SessionAt:   session.SessionAt,
		OccurredAt:  time.Now(),
	})
}

func (p *NatsPublisher) PublishReviewAdded(review *model.Review) error {
	return p.publish("review.added", ReviewEvent{
		EventType:   "review.added",
		ReviewID:    review.ID,
		ProfessorID: review.ProfessorID,
		StudentID:   review.StudentID,
		Rating:      review.Rating,
		OccurredAt:  time.Now(),
	})
}

func (p *NatsPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSessionBooked(*model.Session) error    { return nil }
func (NoopPublisher) PublishSessionCancelled(*model.Session) error { return nil }
func (NoopPublisher) PublishReviewAdded(*model.Review) error       { return nil }

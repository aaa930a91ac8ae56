package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicschool-api/internal/events"
	"musicschool-api/internal/lock"
	"musicschool-api/internal/model"
	"musicschool-api/internal/repository"
	"musicschool-api/pkg/apperr"
)

// MaxSessionsPerMonth is the system-wide ceiling on a student's
// scheduled sessions within one calendar month.
const MaxSessionsPerMonth = 8

const quotaLockTTL = 10 * time.Second

// BookingService claims availability slots, creating sessions, and
// walks sessions through their lifecycle. The claim itself is atomic
// inside the session repository; the quota count-and-insert is
// serialized per (student, month) through the locker.
type BookingService struct {
	slotRepo       repository.SlotRepository
	sessionRepo    repository.SessionRepository
	instrumentRepo repository.InstrumentRepository
	professorRepo  repository.ProfessorRepository
	locker         lock.Locker
	publisher      events.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

func NewBookingService(
	slotRepo repository.SlotRepository,
	sessionRepo repository.SessionRepository,
	instrumentRepo repository.InstrumentRepository,
	professorRepo repository.ProfessorRepository,
	locker lock.Locker,
	publisher events.EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		slotRepo:       slotRepo,
		sessionRepo:    sessionRepo,
		instrumentRepo: instrumentRepo,
		professorRepo:  professorRepo,
		locker:         locker,
		publisher:      publisher,
		logger:         logger,
		now:            time.Now,
	}
}

// Book claims the slot for the student and creates a scheduled
// session. Exactly one of any number of concurrent attempts on the
// same slot succeeds.
func (s *BookingService) Book(ctx context.Context, studentID, slotID, instrumentID uuid.UUID) (*model.Session, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %s: %w", slotID, apperr.ErrNotFound)
	}

	// Fast path only: the conditional claim below is the real guard.
	if slot.Booked {
		return nil, fmt.Errorf("slot is already booked: %w", apperr.ErrConflict)
	}

	instrument, err := s.instrumentRepo.GetByID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("get instrument: %w", err)
	}
	if instrument == nil {
		return nil, fmt.Errorf("instrument %s: %w", instrumentID, apperr.ErrNotFound)
	}

	teaches, err := s.professorRepo.Teaches(ctx, slot.ProfessorID, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("check instrument taught: %w", err)
	}
	if !teaches {
		return nil, fmt.Errorf("professor does not teach %s: %w", instrument.Name, apperr.ErrInvalidInput)
	}

	// Serialize quota check and claim per student-month so concurrent
	// bookings cannot race past the ceiling.
	lockKey := fmt.Sprintf("quota:%s:%s", studentID, slot.StartAt.Format("2006-01"))

	locked, err := s.locker.Lock(ctx, lockKey, quotaLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire quota lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("concurrent booking in progress: %w", apperr.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	monthStart, monthEnd := monthWindow(slot.StartAt)

	count, err := s.sessionRepo.CountScheduled(ctx, studentID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("count scheduled sessions: %w", err)
	}
	if count >= MaxSessionsPerMonth {
		return nil, fmt.Errorf("student has %d scheduled sessions in %s: %w",
			count, slot.StartAt.Format("2006-01"), apperr.ErrQuotaExceeded)
	}

	session := &model.Session{
		StudentID:    studentID,
		ProfessorID:  slot.ProfessorID,
		InstrumentID: instrumentID,
		SlotID:       &slot.ID,
		SessionAt:    slot.StartAt,
		Status:       model.SessionStatusScheduled,
	}

	if err := s.sessionRepo.CreateWithClaim(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Session booked",
		zap.String("session_id", session.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("slot_id", slotID.String()),
		zap.String("instrument", instrument.Name),
		zap.Time("session_at", session.SessionAt),
	)

	go func() {
		_ = s.publisher.PublishSessionBooked(session)
	}()

	return session, nil
}

// Cancel moves a scheduled session to cancelled and releases its slot.
// Only the session's student, its professor or an admin may cancel.
// Slot release is best-effort: a slot that was deleted after being
// released earlier does not fail the cancellation.
func (s *BookingService) Cancel(ctx context.Context, caller model.Identity, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrNotFound)
	}

	isParticipant := caller.UserID == session.StudentID || caller.UserID == session.ProfessorID
	if !isParticipant && !caller.IsAdmin() {
		return nil, fmt.Errorf("caller may not cancel this session: %w", apperr.ErrForbidden)
	}

	if session.Status.Terminal() {
		return nil, fmt.Errorf("session is already %s: %w", session.Status, apperr.ErrConflict)
	}

	err = s.sessionRepo.UpdateStatus(ctx, sessionID, model.SessionStatusScheduled, model.SessionStatusCancelled)
	if err != nil {
		return nil, err
	}
	session.Status = model.SessionStatusCancelled

	if session.SlotID != nil {
		if err := s.slotRepo.Release(ctx, *session.SlotID); err != nil {
			return nil, fmt.Errorf("release slot: %w", err)
		}
	}

	s.logger.Info("Session cancelled",
		zap.String("session_id", sessionID.String()),
		zap.String("cancelled_by", caller.UserID.String()),
	)

	go func() {
		_ = s.publisher.PublishSessionCancelled(session)
	}()

	return session, nil
}

// Complete marks a scheduled session as completed. The transition is
// operator-driven: the session's professor or an admin performs it
// once the lesson has taken place.
func (s *BookingService) Complete(ctx context.Context, caller model.Identity, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrNotFound)
	}

	if caller.UserID != session.ProfessorID && !caller.IsAdmin() {
		return nil, fmt.Errorf("caller may not complete this session: %w", apperr.ErrForbidden)
	}

	if session.Status.Terminal() {
		return nil, fmt.Errorf("session is already %s: %w", session.Status, apperr.ErrConflict)
	}

	err = s.sessionRepo.UpdateStatus(ctx, sessionID, model.SessionStatusScheduled, model.SessionStatusCompleted)
	if err != nil {
		return nil, err
	}
	session.Status = model.SessionStatusCompleted

	s.logger.Info("Session completed", zap.String("session_id", sessionID.String()))

	return session, nil
}

// SessionsFor lists a participant's future sessions ascending by time.
func (s *BookingService) SessionsFor(ctx context.Context, participantID uuid.UUID, role model.Role) ([]*model.Session, error) {
	switch role {
	case model.RoleStudent:
		return s.sessionRepo.ListUpcomingByStudent(ctx, participantID, s.now())
	case model.RoleProfessor:
		return s.sessionRepo.ListUpcomingByProfessor(ctx, participantID, s.now())
	default:
		return nil, fmt.Errorf("unknown participant role %q: %w", role, apperr.ErrInvalidInput)
	}
}

// GetSession is a plain lookup used by the authorization layer and the
// session detail endpoint.
func (s *BookingService) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrNotFound)
	}

	return session, nil
}

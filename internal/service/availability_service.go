package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicschool-api/internal/model"
	"musicschool-api/internal/repository"
	"musicschool-api/pkg/apperr"
)

// AvailabilityService owns publication, mutation and deletion of
// professor time slots. It never touches booking state: claiming and
// releasing slots is the BookingService's job.
type AvailabilityService struct {
	slotRepo      repository.SlotRepository
	professorRepo repository.ProfessorRepository
	logger        *zap.Logger
}

func NewAvailabilityService(
	slotRepo repository.SlotRepository,
	professorRepo repository.ProfessorRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		slotRepo:      slotRepo,
		professorRepo: professorRepo,
		logger:        logger,
	}
}

// ListAvailable returns the professor's unbooked slots whose start
// falls within [from, to] (calendar dates), ordered by start time.
func (s *AvailabilityService) ListAvailable(ctx context.Context, professorID uuid.UUID, from, to time.Time) ([]*model.AvailabilitySlot, error) {
	professor, err := s.professorRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %s: %w", professorID, apperr.ErrNotFound)
	}

	rangeEnd := to.AddDate(0, 0, 1)
	return s.slotRepo.ListFree(ctx, professorID, from, rangeEnd)
}

// Publish creates a new unbooked slot. The window must be valid
// (start before end) and must not overlap any existing slot of the
// professor; back-to-back windows sharing a boundary are allowed.
func (s *AvailabilityService) Publish(ctx context.Context, professorID uuid.UUID, date, start, end time.Time) (*model.AvailabilitySlot, error) {
	startAt := combineDateTime(date, start)
	endAt := combineDateTime(date, end)

	if !startAt.Before(endAt) {
		return nil, fmt.Errorf("slot start must be before end: %w", apperr.ErrInvalidInput)
	}

	professor, err := s.professorRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %s: %w", professorID, apperr.ErrNotFound)
	}

	overlaps, err := s.slotRepo.HasOverlap(ctx, professorID, startAt, endAt, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlaps {
		return nil, fmt.Errorf("slot overlaps an existing availability: %w", apperr.ErrConflict)
	}

	slot := &model.AvailabilitySlot{
		ProfessorID: professorID,
		StartAt:     startAt,
		EndAt:       endAt,
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Availability published",
		zap.String("slot_id", slot.ID.String()),
		zap.String("professor_id", professorID.String()),
		zap.Time("start_at", startAt),
		zap.Time("end_at", endAt),
	)

	return slot, nil
}

// Reschedule moves an unbooked slot to a new window. A booked slot is
// immutable in time: any change to its date or times is rejected. A
// new window that clashes with another slot of the professor is
// rejected as well.
func (s *AvailabilityService) Reschedule(ctx context.Context, slotID uuid.UUID, date, start, end time.Time) (*model.AvailabilitySlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %s: %w", slotID, apperr.ErrNotFound)
	}

	newStart := combineDateTime(date, start)
	newEnd := combineDateTime(date, end)

	if !newStart.Before(newEnd) {
		return nil, fmt.Errorf("slot start must be before end: %w", apperr.ErrInvalidInput)
	}

	changed := !slot.StartAt.Equal(newStart) || !slot.EndAt.Equal(newEnd)
	if !changed {
		return slot, nil
	}

	if slot.Booked {
		return nil, fmt.Errorf("booked slot cannot be rescheduled: %w", apperr.ErrConflict)
	}

	overlaps, err := s.slotRepo.HasOverlap(ctx, slot.ProfessorID, newStart, newEnd, slotID)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlaps {
		return nil, fmt.Errorf("new window overlaps an existing availability: %w", apperr.ErrConflict)
	}

	if err := s.slotRepo.UpdateWindow(ctx, slotID, newStart, newEnd); err != nil {
		return nil, err
	}

	slot.StartAt = newStart
	slot.EndAt = newEnd

	s.logger.Info("Availability rescheduled",
		zap.String("slot_id", slotID.String()),
		zap.Time("start_at", newStart),
		zap.Time("end_at", newEnd),
	)

	return slot, nil
}

// Remove deletes an unbooked slot.
func (s *AvailabilityService) Remove(ctx context.Context, slotID uuid.UUID) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return fmt.Errorf("slot %s: %w", slotID, apperr.ErrNotFound)
	}

	if slot.Booked {
		return fmt.Errorf("booked slot cannot be deleted: %w", apperr.ErrConflict)
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		return err
	}

	s.logger.Info("Availability removed", zap.String("slot_id", slotID.String()))
	return nil
}

// OwnerOf resolves the professor owning a slot. The authorization
// layer uses it to decide whether a caller may mutate the slot.
func (s *AvailabilityService) OwnerOf(ctx context.Context, slotID uuid.UUID) (uuid.UUID, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return uuid.Nil, fmt.Errorf("slot %s: %w", slotID, apperr.ErrNotFound)
	}

	return slot.ProfessorID, nil
}

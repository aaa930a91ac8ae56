package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicschool-api/internal/model"
	"musicschool-api/internal/repository"
	"musicschool-api/pkg/apperr"
)

type ProfessorService struct {
	professorRepo  repository.ProfessorRepository
	instrumentRepo repository.InstrumentRepository
	logger         *zap.Logger
}

func NewProfessorService(
	professorRepo repository.ProfessorRepository,
	instrumentRepo repository.InstrumentRepository,
	logger *zap.Logger,
) *ProfessorService {
	return &ProfessorService{
		professorRepo:  professorRepo,
		instrumentRepo: instrumentRepo,
		logger:         logger,
	}
}

func (s *ProfessorService) List(ctx context.Context) ([]*model.Professor, error) {
	professors, err := s.professorRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, professor := range professors {
		instruments, err := s.professorRepo.ListInstruments(ctx, professor.ID)
		if err != nil {
			return nil, err
		}
		professor.Instruments = instruments
	}

	return professors, nil
}

func (s *ProfessorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error) {
	professor, err := s.professorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %s: %w", id, apperr.ErrNotFound)
	}

	instruments, err := s.professorRepo.ListInstruments(ctx, id)
	if err != nil {
		return nil, err
	}
	professor.Instruments = instruments

	return professor, nil
}

// UpdateProfile replaces the professor's bio, hourly rate and taught
// instrument set. Every referenced instrument must exist.
func (s *ProfessorService) UpdateProfile(ctx context.Context, professorID uuid.UUID, bio string, hourlyRate float64, instrumentIDs []uuid.UUID) (*model.Professor, error) {
	professor, err := s.professorRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %s: %w", professorID, apperr.ErrNotFound)
	}

	if hourlyRate < 0 {
		return nil, fmt.Errorf("hourly rate must not be negative: %w", apperr.ErrInvalidInput)
	}

	for _, instrumentID := range instrumentIDs {
		instrument, err := s.instrumentRepo.GetByID(ctx, instrumentID)
		if err != nil {
			return nil, err
		}
		if instrument == nil {
			return nil, fmt.Errorf("instrument %s: %w", instrumentID, apperr.ErrNotFound)
		}
	}

	professor.Bio = bio
	professor.HourlyRate = hourlyRate

	if err := s.professorRepo.UpdateProfile(ctx, professor); err != nil {
		return nil, err
	}

	if instrumentIDs != nil {
		if err := s.professorRepo.SetInstruments(ctx, professorID, instrumentIDs); err != nil {
			return nil, err
		}
	}

	instruments, err := s.professorRepo.ListInstruments(ctx, professorID)
	if err != nil {
		return nil, err
	}
	professor.Instruments = instruments

	s.logger.Info("Professor profile updated", zap.String("professor_id", professorID.String()))

	return professor, nil
}

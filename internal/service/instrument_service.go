package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicschool-api/internal/model"
	"musicschool-api/internal/repository"
	"musicschool-api/pkg/apperr"
)

// InstrumentService manages the flat catalog of teachable instruments.
type InstrumentService struct {
	instrumentRepo repository.InstrumentRepository
	logger         *zap.Logger
}

func NewInstrumentService(instrumentRepo repository.InstrumentRepository, logger *zap.Logger) *InstrumentService {
	return &InstrumentService{instrumentRepo: instrumentRepo, logger: logger}
}

func (s *InstrumentService) Create(ctx context.Context, name, description, iconURL string) (*model.Instrument, error) {
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, fmt.Errorf("instrument name must be 2-50 characters: %w", apperr.ErrInvalidInput)
	}

	instrument := &model.Instrument{
		Name:        name,
		Description: description,
		IconURL:     iconURL,
	}

	if err := s.instrumentRepo.Create(ctx, instrument); err != nil {
		return nil, err
	}

	s.logger.Info("Instrument created",
		zap.String("instrument_id", instrument.ID.String()),
		zap.String("name", name),
	)

	return instrument, nil
}

func (s *InstrumentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Instrument, error) {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		return nil, fmt.Errorf("instrument %s: %w", id, apperr.ErrNotFound)
	}

	return instrument, nil
}

func (s *InstrumentService) List(ctx context.Context) ([]*model.Instrument, error) {
	return s.instrumentRepo.List(ctx)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicschool-api/internal/events"
	"musicschool-api/internal/model"
	"musicschool-api/internal/repository"
	"musicschool-api/pkg/apperr"
)

// ReviewService admits reviews and keeps the professor's average
// rating in sync. The average is always recomputed from the full
// review set on write, never adjusted incrementally.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	sessionRepo   repository.SessionRepository
	professorRepo repository.ProfessorRepository
	publisher     events.EventPublisher
	logger        *zap.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	sessionRepo repository.SessionRepository,
	professorRepo repository.ProfessorRepository,
	publisher events.EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		sessionRepo:   sessionRepo,
		professorRepo: professorRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// AddReview admits a review for a professor. The student must have at
// least one completed session with the professor, and may review each
// professor once; the qualifying session's id is recorded on the
// review.
func (s *ReviewService) AddReview(ctx context.Context, studentID, professorID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("comment must not be empty: %w", apperr.ErrInvalidInput)
	}

	professor, err := s.professorRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %s: %w", professorID, apperr.ErrNotFound)
	}

	completed, err := s.sessionRepo.LatestCompleted(ctx, studentID, professorID)
	if err != nil {
		return nil, fmt.Errorf("find completed session: %w", err)
	}
	if completed == nil {
		return nil, fmt.Errorf("no completed session with this professor: %w", apperr.ErrConflict)
	}

	// Friendly pre-check; the unique index on (student, professor)
	// still guards the race.
	exists, err := s.reviewRepo.Exists(ctx, studentID, professorID)
	if err != nil {
		return nil, fmt.Errorf("check review exists: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("professor already reviewed by this student: %w", apperr.ErrConflict)
	}

	review := &model.Review{
		ProfessorID: professorID,
		StudentID:   studentID,
		SessionID:   &completed.ID,
		Rating:      rating,
		Comment:     comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	average, err := s.professorRepo.RecalculateRating(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("recalculate rating: %w", err)
	}

	s.logger.Info("Review added",
		zap.String("review_id", review.ID.String()),
		zap.String("professor_id", professorID.String()),
		zap.Int("rating", rating),
		zap.Float64("average_rating", average),
	)

	go func() {
		_ = s.publisher.PublishReviewAdded(review)
	}()

	return review, nil
}

// ReviewsFor lists a professor's reviews in persistence order.
func (s *ReviewService) ReviewsFor(ctx context.Context, professorID uuid.UUID) ([]*model.Review, error) {
	professor, err := s.professorRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %s: %w", professorID, apperr.ErrNotFound)
	}

	return s.reviewRepo.ListByProfessor(ctx, professorID)
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

type ReviewRepository interface {
	// Create inserts a review. The (student, professor) pair is unique;
	// a duplicate insert returns apperr.ErrConflict.
	Create(ctx context.Context, review *model.Review) error
	Exists(ctx context.Context, studentID, professorID uuid.UUID) (bool, error)
	ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.Review, error)
}

type postgresReviewRepository struct {
	db DB
}

func NewPostgresReviewRepository(db DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

const reviewColumns = `id, professor_id, student_id, session_id, rating, comment, created_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	var review model.Review
	err := row.Scan(
		&review.ID,
		&review.ProfessorID,
		&review.StudentID,
		&review.SessionID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (professor_id, student_id, session_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		review.ProfessorID,
		review.StudentID,
		review.SessionID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("create review: pair already reviewed: %w", apperr.ErrConflict)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *postgresReviewRepository) Exists(ctx context.Context, studentID, professorID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reviews
			WHERE student_id = $1 AND professor_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, studentID, professorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

func (r *postgresReviewRepository) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE professor_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

func newReviewMock(t *testing.T) (ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresReviewRepository(mock), mock
}

func TestReviewCreateDuplicatePair(t *testing.T) {
	repo, mock := newReviewMock(t)

	sessionID := uuid.New()
	review := &model.Review{
		ProfessorID: uuid.New(),
		StudentID:   uuid.New(),
		SessionID:   &sessionID,
		Rating:      4,
		Comment:     "nice",
	}

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(review.ProfessorID, review.StudentID, review.SessionID, review.Rating, review.Comment).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), review)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(context.Canceled))
}

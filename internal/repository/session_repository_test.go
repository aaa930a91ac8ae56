package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

func newSessionMock(t *testing.T) (SessionRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresSessionRepository(mock), mock
}

func testSession() *model.Session {
	slotID := uuid.New()
	return &model.Session{
		StudentID:    uuid.New(),
		ProfessorID:  uuid.New(),
		InstrumentID: uuid.New(),
		SlotID:       &slotID,
		SessionAt:    time.Date(2026, time.September, 14, 10, 0, 0, 0, time.UTC),
		Status:       model.SessionStatusScheduled,
	}
}

func TestCreateWithClaimCommitsClaimAndInsert(t *testing.T) {
	repo, mock := newSessionMock(t)
	session := testSession()

	sessionID := uuid.New()
	bookedAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE availability_slots").
		WithArgs(session.StudentID, *session.SlotID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO sessions").
		WithArgs(
			session.StudentID,
			session.ProfessorID,
			session.InstrumentID,
			*session.SlotID,
			session.SessionAt,
			session.Status,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "booked_at"}).AddRow(sessionID, bookedAt))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateWithClaim(context.Background(), session))
	assert.Equal(t, sessionID, session.ID)
	assert.Equal(t, bookedAt, session.BookedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithClaimLoserGetsConflict(t *testing.T) {
	repo, mock := newSessionMock(t)
	session := testSession()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE availability_slots").
		WithArgs(session.StudentID, *session.SlotID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.CreateWithClaim(context.Background(), session)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithClaimRequiresSlotID(t *testing.T) {
	repo, _ := newSessionMock(t)

	session := testSession()
	session.SlotID = nil

	assert.Error(t, repo.CreateWithClaim(context.Background(), session))
}

func TestUpdateStatusStaleTransition(t *testing.T) {
	repo, mock := newSessionMock(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE sessions").
		WithArgs(model.SessionStatusCancelled, id, model.SessionStatusScheduled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), id, model.SessionStatusScheduled, model.SessionStatusCancelled)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountScheduledWindow(t *testing.T) {
	repo, mock := newSessionMock(t)

	studentID := uuid.New()
	from := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.September, 30, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(studentID, model.SessionStatusScheduled, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(8)))

	count, err := repo.CountScheduled(context.Background(), studentID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

type SessionRepository interface {
	// CreateWithClaim claims session.SlotID and inserts the session in
	// one transaction. The claim is a conditional update guarded by
	// is_booked = FALSE, so of two concurrent calls exactly one
	// succeeds; the loser gets apperr.ErrConflict.
	CreateWithClaim(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// UpdateStatus transitions a session from one status to another.
	// Returns apperr.ErrConflict when the session is no longer in the
	// expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.SessionStatus) error
	CountScheduled(ctx context.Context, studentID uuid.UUID, from, to time.Time) (int64, error)
	ListUpcomingByStudent(ctx context.Context, studentID uuid.UUID, after time.Time) ([]*model.Session, error)
	ListUpcomingByProfessor(ctx context.Context, professorID uuid.UUID, after time.Time) ([]*model.Session, error)
	// LatestCompleted returns the most recent completed session between
	// the pair, or nil when none exists.
	LatestCompleted(ctx context.Context, studentID, professorID uuid.UUID) (*model.Session, error)
}

type postgresSessionRepository struct {
	db DB
}

func NewPostgresSessionRepository(db DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

const sessionColumns = `id, student_id, professor_id, instrument_id, slot_id, session_at, status, booked_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.StudentID,
		&session.ProfessorID,
		&session.InstrumentID,
		&session.SlotID,
		&session.SessionAt,
		&session.Status,
		&session.BookedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *postgresSessionRepository) CreateWithClaim(ctx context.Context, session *model.Session) error {
	if session.SlotID == nil {
		return fmt.Errorf("create session: slot id is not set")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	claim := `
		UPDATE availability_slots
		SET is_booked = TRUE, booked_by_student_id = $1
		WHERE id = $2 AND is_booked = FALSE
	`

	tag, err := tx.Exec(ctx, claim, session.StudentID, *session.SlotID)
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("claim slot: already booked: %w", apperr.ErrConflict)
	}

	insert := `
		INSERT INTO sessions (student_id, professor_id, instrument_id, slot_id, session_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booked_at
	`

	err = tx.QueryRow(
		ctx, insert,
		session.StudentID,
		session.ProfessorID,
		session.InstrumentID,
		*session.SlotID,
		session.SessionAt,
		session.Status,
	).Scan(&session.ID, &session.BookedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *postgresSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

func (r *postgresSessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.SessionStatus) error {
	query := `UPDATE sessions SET status = $1 WHERE id = $2 AND status = $3`

	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update session status: not in status %q: %w", from, apperr.ErrConflict)
	}

	return nil
}

func (r *postgresSessionRepository) CountScheduled(ctx context.Context, studentID uuid.UUID, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM sessions
		WHERE student_id = $1
		  AND status = $2
		  AND session_at BETWEEN $3 AND $4
	`

	var count int64
	err := r.db.QueryRow(ctx, query, studentID, model.SessionStatusScheduled, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scheduled sessions: %w", err)
	}

	return count, nil
}

func (r *postgresSessionRepository) listUpcoming(ctx context.Context, column string, id uuid.UUID, after time.Time) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE ` + column + ` = $1 AND session_at > $2
		ORDER BY session_at ASC
	`

	rows, err := r.db.Query(ctx, query, id, after)
	if err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *postgresSessionRepository) ListUpcomingByStudent(ctx context.Context, studentID uuid.UUID, after time.Time) ([]*model.Session, error) {
	return r.listUpcoming(ctx, "student_id", studentID, after)
}

func (r *postgresSessionRepository) ListUpcomingByProfessor(ctx context.Context, professorID uuid.UUID, after time.Time) ([]*model.Session, error) {
	return r.listUpcoming(ctx, "professor_id", professorID, after)
}

func (r *postgresSessionRepository) LatestCompleted(ctx context.Context, studentID, professorID uuid.UUID) (*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE student_id = $1 AND professor_id = $2 AND status = $3
		ORDER BY session_at DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.QueryRow(ctx, query, studentID, professorID, model.SessionStatusCompleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest completed session: %w", err)
	}

	return session, nil
}

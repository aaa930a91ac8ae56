package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"musicschool-api/internal/model"
)

type SlotRepository interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	ListFree(ctx context.Context, professorID uuid.UUID, from, to time.Time) ([]*model.AvailabilitySlot, error)
	// HasOverlap reports whether any slot of the professor intersects
	// [start, end) under half-open semantics, skipping excludeID.
	HasOverlap(ctx context.Context, professorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error)
	UpdateWindow(ctx context.Context, id uuid.UUID, start, end time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Release flips a booked slot back to free. Zero rows affected is
	// not an error: the slot may already be gone or released.
	Release(ctx context.Context, id uuid.UUID) error
}

type postgresSlotRepository struct {
	db DB
}

func NewPostgresSlotRepository(db DB) SlotRepository {
	return &postgresSlotRepository{db: db}
}

const slotColumns = `id, professor_id, start_at, end_at, is_booked, booked_by_student_id, created_at`

func scanSlot(row pgx.Row) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.ProfessorID,
		&slot.StartAt,
		&slot.EndAt,
		&slot.Booked,
		&slot.BookedByStudentID,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *postgresSlotRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (professor_id, start_at, end_at, is_booked)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, slot.ProfessorID, slot.StartAt, slot.EndAt).
		Scan(&slot.ID, &slot.CreatedAt)
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

func (r *postgresSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

func (r *postgresSlotRepository) ListFree(ctx context.Context, professorID uuid.UUID, from, to time.Time) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE professor_id = $1
		  AND is_booked = FALSE
		  AND start_at >= $2
		  AND start_at < $3
		ORDER BY start_at
	`

	rows, err := r.db.Query(ctx, query, professorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list free slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

func (r *postgresSlotRepository) HasOverlap(ctx context.Context, professorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM availability_slots
			WHERE professor_id = $1
			  AND start_at < $3
			  AND end_at > $2
			  AND id <> $4
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, professorID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot overlap: %w", err)
	}

	return exists, nil
}

func (r *postgresSlotRepository) UpdateWindow(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	query := `
		UPDATE availability_slots
		SET start_at = $1, end_at = $2
		WHERE id = $3 AND is_booked = FALSE
	`

	tag, err := r.db.Exec(ctx, query, start, end, id)
	if err != nil {
		return fmt.Errorf("update slot window: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update slot window: slot missing or booked")
	}

	return nil
}

func (r *postgresSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_slots WHERE id = $1 AND is_booked = FALSE`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete slot: slot missing or booked")
	}

	return nil
}

func (r *postgresSlotRepository) Release(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET is_booked = FALSE, booked_by_student_id = NULL
		WHERE id = $1 AND is_booked = TRUE
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}

	return nil
}

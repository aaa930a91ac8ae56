package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"musicschool-api/internal/model"
)

type ProfessorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error)
	List(ctx context.Context) ([]*model.Professor, error)
	Teaches(ctx context.Context, professorID, instrumentID uuid.UUID) (bool, error)
	ListInstruments(ctx context.Context, professorID uuid.UUID) ([]*model.Instrument, error)
	UpdateProfile(ctx context.Context, professor *model.Professor) error
	SetInstruments(ctx context.Context, professorID uuid.UUID, instrumentIDs []uuid.UUID) error
	// RecalculateRating recomputes average_rating as the mean of all
	// stored reviews in a single statement and returns the new value.
	RecalculateRating(ctx context.Context, professorID uuid.UUID) (float64, error)
}

type postgresProfessorRepository struct {
	db DB
}

func NewPostgresProfessorRepository(db DB) ProfessorRepository {
	return &postgresProfessorRepository{db: db}
}

func (r *postgresProfessorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error) {
	query := `SELECT id, bio, hourly_rate, average_rating FROM professors WHERE id = $1`

	var professor model.Professor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&professor.ID,
		&professor.Bio,
		&professor.HourlyRate,
		&professor.AverageRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get professor by id: %w", err)
	}

	return &professor, nil
}

func (r *postgresProfessorRepository) List(ctx context.Context) ([]*model.Professor, error) {
	query := `SELECT id, bio, hourly_rate, average_rating FROM professors ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	defer rows.Close()

	var professors []*model.Professor
	for rows.Next() {
		var professor model.Professor
		err := rows.Scan(&professor.ID, &professor.Bio, &professor.HourlyRate, &professor.AverageRating)
		if err != nil {
			return nil, fmt.Errorf("scan professor: %w", err)
		}
		professors = append(professors, &professor)
	}

	return professors, rows.Err()
}

func (r *postgresProfessorRepository) Teaches(ctx context.Context, professorID, instrumentID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM professor_instruments
			WHERE professor_id = $1 AND instrument_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, professorID, instrumentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check professor teaches instrument: %w", err)
	}

	return exists, nil
}

func (r *postgresProfessorRepository) ListInstruments(ctx context.Context, professorID uuid.UUID) ([]*model.Instrument, error) {
	query := `
		SELECT i.id, i.name, i.description, i.icon_url, i.created_at
		FROM instruments i
		JOIN professor_instruments pi ON pi.instrument_id = i.id
		WHERE pi.professor_id = $1
		ORDER BY i.name
	`

	rows, err := r.db.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("list professor instruments: %w", err)
	}
	defer rows.Close()

	var instruments []*model.Instrument
	for rows.Next() {
		var instrument model.Instrument
		err := rows.Scan(
			&instrument.ID,
			&instrument.Name,
			&instrument.Description,
			&instrument.IconURL,
			&instrument.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		instruments = append(instruments, &instrument)
	}

	return instruments, rows.Err()
}

func (r *postgresProfessorRepository) UpdateProfile(ctx context.Context, professor *model.Professor) error {
	query := `UPDATE professors SET bio = $1, hourly_rate = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, professor.Bio, professor.HourlyRate, professor.ID)
	if err != nil {
		return fmt.Errorf("update professor profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update professor profile: professor not found")
	}

	return nil
}

func (r *postgresProfessorRepository) SetInstruments(ctx context.Context, professorID uuid.UUID, instrumentIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM professor_instruments WHERE professor_id = $1`, professorID); err != nil {
		return fmt.Errorf("clear professor instruments: %w", err)
	}

	for _, instrumentID := range instrumentIDs {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO professor_instruments (professor_id, instrument_id) VALUES ($1, $2)`,
			professorID, instrumentID,
		)
		if err != nil {
			return fmt.Errorf("add professor instrument: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *postgresProfessorRepository) RecalculateRating(ctx context.Context, professorID uuid.UUID) (float64, error) {
	query := `
		UPDATE professors
		SET average_rating = COALESCE(
			(SELECT AVG(rating)::double precision FROM reviews WHERE professor_id = $1), 0
		)
		WHERE id = $1
		RETURNING average_rating
	`

	var rating float64
	if err := r.db.QueryRow(ctx, query, professorID).Scan(&rating); err != nil {
		return 0, fmt.Errorf("recalculate professor rating: %w", err)
	}

	return rating, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

type InstrumentRepository interface {
	Create(ctx context.Context, instrument *model.Instrument) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Instrument, error)
	List(ctx context.Context) ([]*model.Instrument, error)
}

type postgresInstrumentRepository struct {
	db DB
}

func NewPostgresInstrumentRepository(db DB) InstrumentRepository {
	return &postgresInstrumentRepository{db: db}
}

func (r *postgresInstrumentRepository) Create(ctx context.Context, instrument *model.Instrument) error {
	query := `
		INSERT INTO instruments (name, description, icon_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, instrument.Name, instrument.Description, instrument.IconURL).
		Scan(&instrument.ID, &instrument.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("create instrument: name taken: %w", apperr.ErrConflict)
		}
		return fmt.Errorf("create instrument: %w", err)
	}

	return nil
}

func (r *postgresInstrumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Instrument, error) {
	query := `SELECT id, name, description, icon_url, created_at FROM instruments WHERE id = $1`

	var instrument model.Instrument
	err := r.db.QueryRow(ctx, query, id).Scan(
		&instrument.ID,
		&instrument.Name,
		&instrument.Description,
		&instrument.IconURL,
		&instrument.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get instrument by id: %w", err)
	}

	return &instrument, nil
}

func (r *postgresInstrumentRepository) List(ctx context.Context) ([]*model.Instrument, error) {
	query := `SELECT id, name, description, icon_url, created_at FROM instruments ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
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

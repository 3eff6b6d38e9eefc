package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/race-scorer/internal/database"
	"github.com/yourusername/race-scorer/internal/models"
)

const (
	errScanRace = "failed to scan race: %w"
	raceColumns = `id, venue, race_date, race_number, distance,
		       COALESCE(surface, ''), COALESCE(track_condition, ''), COALESCE(field_size, 0),
		       COALESCE(grade, ''), created_at, updated_at`
)

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db       *database.DB
	validate *validator.Validate
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB, validate *validator.Validate) RaceRepository {
	return &PostgresRaceRepository{db: db, validate: validate}
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	query := `SELECT ` + raceColumns + ` FROM races WHERE id = $1`

	race, err := scanRace(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}
	if err := r.validate.Struct(race); err != nil {
		return nil, fmt.Errorf("invalid race %s: %w", id, err)
	}

	return race, nil
}

// GetByDate retrieves all races run on a calendar day
func (r *PostgresRaceRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Race, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return r.GetByDateRange(ctx, day, day)
}

// GetByDateRange retrieves races with a race date between start and end inclusive
func (r *PostgresRaceRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Race, error) {
	query := `
		SELECT ` + raceColumns + `
		FROM races
		WHERE race_date >= $1::date AND race_date <= $2::date
		ORDER BY race_date ASC, venue ASC, race_number ASC
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query races by date range: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		if err := r.validate.Struct(race); err != nil {
			return nil, fmt.Errorf("invalid race %s: %w", race.ID, err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}

func scanRace(row pgx.Row) (*models.Race, error) {
	race := &models.Race{}
	err := row.Scan(
		&race.ID, &race.Venue, &race.RaceDate, &race.RaceNumber, &race.Distance,
		&race.Surface, &race.TrackCondition, &race.FieldSize, &race.Grade,
		&race.CreatedAt, &race.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return race, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourusername/race-scorer/internal/database"
	"github.com/yourusername/race-scorer/internal/models"
)

// PostgresRunnerRepository implements RunnerRepository for PostgreSQL
type PostgresRunnerRepository struct {
	db       *database.DB
	validate *validator.Validate
}

// NewPostgresRunnerRepository creates a new runner repository
func NewPostgresRunnerRepository(db *database.DB, validate *validator.Validate) RunnerRepository {
	return &PostgresRunnerRepository{db: db, validate: validate}
}

// GetByRaceID retrieves all runners for a race with their previous-run snapshot
func (r *PostgresRunnerRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Runner, error) {
	query := `
		SELECT id, race_id, horse_name, post_position, jockey_id, trainer_id, weight, sex, age, odds,
		       prev_finish_position, prev_corner_position, prev_odds, days_since_last_run,
		       created_at, updated_at
		FROM runners
		WHERE race_id = $1
		ORDER BY post_position ASC
	`

	rows, err := r.db.Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runners by race: %w", err)
	}
	defer rows.Close()

	var runners []*models.Runner
	for rows.Next() {
		runner := &models.Runner{}
		prev := models.PreviousRun{}
		var jockey, trainer, sex *string
		err := rows.Scan(
			&runner.ID, &runner.RaceID, &runner.HorseName, &runner.PostPosition,
			&jockey, &trainer, &runner.Weight, &sex, &runner.Age, &runner.Odds,
			&prev.FinishPosition, &prev.CornerPosition, &prev.Odds, &prev.DaysSince,
			&runner.CreatedAt, &runner.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan runner: %w", err)
		}
		runner.JockeyID = deref(jockey)
		runner.TrainerID = deref(trainer)
		runner.Sex = deref(sex)
		if prev.FinishPosition != nil || prev.CornerPosition != nil || prev.Odds != nil || prev.DaysSince != nil {
			runner.Previous = &prev
		}
		if err := r.validate.Struct(runner); err != nil {
			return nil, fmt.Errorf("invalid runner %s: %w", runner.ID, err)
		}
		runners = append(runners, runner)
	}

	return runners, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/race-scorer/internal/database"
	"github.com/yourusername/race-scorer/internal/models"
)

// PostgresObservationRepository implements ObservationRepository for PostgreSQL
type PostgresObservationRepository struct {
	db *database.DB
}

// NewPostgresObservationRepository creates a new observation repository
func NewPostgresObservationRepository(db *database.DB) ObservationRepository {
	return &PostgresObservationRepository{db: db}
}

// FindObservations retrieves every observation of a factor value at a venue inside a year window
func (o *PostgresObservationRepository) FindObservations(ctx context.Context, q models.ObservationQuery) ([]*models.FactorObservation, error) {
	query := `
		SELECT venue, factor_id, value_key, year, finish_position,
		       COALESCE(win_odds, 0), COALESCE(win_payout, 0),
		       COALESCE(place_odds, 0), COALESCE(place_payout, 0)
		FROM factor_observations
		WHERE venue = $1 AND factor_id = $2 AND value_key = $3
		  AND year >= $4 AND year <= $5
	`

	rows, err := o.db.Query(ctx, query, q.Venue, q.FactorID, q.ValueKey, q.FromYear, q.ToYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query factor observations: %w", err)
	}

	observations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.FactorObservation, error) {
		obs := &models.FactorObservation{}
		err := row.Scan(
			&obs.Venue, &obs.FactorID, &obs.ValueKey, &obs.Year, &obs.FinishPosition,
			&obs.WinOdds, &obs.WinPayout, &obs.PlaceOdds, &obs.PlacePayout,
		)
		return obs, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan factor observation: %w", err)
	}

	return observations, nil
}

// DistinctValues lists the value keys observed for a factor at a venue inside a year window
func (o *PostgresObservationRepository) DistinctValues(ctx context.Context, venue, factorID string, fromYear, toYear int) ([]string, error) {
	query := `
		SELECT DISTINCT value_key
		FROM factor_observations
		WHERE venue = $1 AND factor_id = $2 AND year >= $3 AND year <= $4
		ORDER BY value_key ASC
	`

	rows, err := o.db.Query(ctx, query, venue, factorID, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct factor values: %w", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan factor value: %w", err)
	}

	return values, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"parking-system/internal/parking"
)

type spotRow struct {
	Number    int    `db:"parking_number"`
	Type      string `db:"type"`
	Available bool   `db:"available"`
}

func (r spotRow) toSpot() parking.ParkingSpot {
	return parking.ParkingSpot{
		Number:    r.Number,
		Category:  parking.Category(r.Type),
		Available: r.Available,
	}
}

type SpotRepository struct {
	db *sqlx.DB
}

func NewSpotRepository(db *sqlx.DB) *SpotRepository {
	return &SpotRepository{db: db}
}

func (r *SpotRepository) FindAvailableSpot(ctx context.Context, category parking.Category) (parking.ParkingSpot, error) {
	query := `
		SELECT parking_number, type, available
		FROM parking
		WHERE available = TRUE AND type = $1
		ORDER BY parking_number
		LIMIT 1`

	var row spotRow
	if err := r.db.GetContext(ctx, &row, query, category.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return parking.ParkingSpot{}, parking.ErrNotFound
		}
		return parking.ParkingSpot{}, fmt.Errorf("SpotRepository.FindAvailableSpot: %w", err)
	}
	return row.toSpot(), nil
}

func (r *SpotRepository) UpdateAvailability(ctx context.Context, number int, available bool) error {
	query := `UPDATE parking SET available = $1 WHERE parking_number = $2`

	res, err := r.db.ExecContext(ctx, query, available, number)
	if err != nil {
		return fmt.Errorf("SpotRepository.UpdateAvailability: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SpotRepository.UpdateAvailability: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("spot %d: %w", number, parking.ErrNotFound)
	}
	return nil
}

// Spots lists the whole inventory ordered by number.
func (r *SpotRepository) Spots(ctx context.Context) ([]parking.ParkingSpot, error) {
	query := `SELECT parking_number, type, available FROM parking ORDER BY parking_number`

	var rows []spotRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("SpotRepository.Spots: %w", err)
	}

	spots := make([]parking.ParkingSpot, len(rows))
	for i, row := range rows {
		spots[i] = row.toSpot()
	}
	return spots, nil
}

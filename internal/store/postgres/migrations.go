package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"parking-system/internal/logging"
	"parking-system/internal/parking"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS parking (
		parking_number INTEGER PRIMARY KEY,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		type VARCHAR(10) NOT NULL CHECK (type IN ('CAR', 'BIKE'))
	)`,

	`CREATE TABLE IF NOT EXISTS ticket (
		id BIGSERIAL PRIMARY KEY,
		parking_number INTEGER NOT NULL REFERENCES parking(parking_number),
		vehicle_reg_number VARCHAR(32) NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		in_time TIMESTAMP WITH TIME ZONE NOT NULL,
		out_time TIMESTAMP WITH TIME ZONE,
		CHECK (out_time IS NULL OR out_time >= in_time)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_ticket_vehicle_reg_number ON ticket(vehicle_reg_number)`,
	`CREATE INDEX IF NOT EXISTS idx_parking_type_available ON parking(type, available)`,
}

const seedSpot = `
	INSERT INTO parking (parking_number, available, type)
	VALUES ($1, TRUE, $2)
	ON CONFLICT (parking_number) DO NOTHING`

func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			logging.Error(ctx, "migration failed", "index", i, "error", err)
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	logging.Info(ctx, "migrations completed", "count", len(migrations))
	return nil
}

// SeedInventory inserts car spots 1..carSpots then bike spots after them.
// Existing spots keep their availability.
func SeedInventory(ctx context.Context, db *sqlx.DB, carSpots, bikeSpots int) error {
	number := 0
	seed := func(category parking.Category, count int) error {
		for i := 0; i < count; i++ {
			number++
			if _, err := db.ExecContext(ctx, seedSpot, number, category.String()); err != nil {
				return fmt.Errorf("seed spot %d: %w", number, err)
			}
		}
		return nil
	}

	if err := seed(parking.CategoryCar, carSpots); err != nil {
		return err
	}
	if err := seed(parking.CategoryBike, bikeSpots); err != nil {
		return err
	}

	logging.Info(ctx, "inventory seeded", "car_spots", carSpots, "bike_spots", bikeSpots)
	return nil
}

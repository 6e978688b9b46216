package parking

import (
	"context"
	"fmt"
)

// SpotAllocator hands out spots by category, lowest number first.
type SpotAllocator struct {
	spots SpotRepository
}

func NewSpotAllocator(spots SpotRepository) *SpotAllocator {
	return &SpotAllocator{spots: spots}
}

// FindAvailableSpot does not change availability. ErrNotFound means the
// category is full.
func (a *SpotAllocator) FindAvailableSpot(ctx context.Context, category Category) (ParkingSpot, error) {
	if !category.Valid() {
		return ParkingSpot{}, &UnsupportedCategoryError{Value: category}
	}

	spot, err := a.spots.FindAvailableSpot(ctx, category)
	if err != nil {
		return ParkingSpot{}, err
	}
	if spot.Number <= 0 {
		return ParkingSpot{}, ErrNotFound
	}
	return spot, nil
}

func (a *SpotAllocator) SetOccupancy(ctx context.Context, number int, available bool) error {
	if err := a.spots.UpdateAvailability(ctx, number, available); err != nil {
		return fmt.Errorf("update availability of spot %d: %w", number, err)
	}
	return nil
}

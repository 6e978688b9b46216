package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"parking-system/internal/parking"
)

// SpotRepository is a fixed spot inventory held in memory.
type SpotRepository struct {
	mu    sync.RWMutex
	spots map[int]*parking.ParkingSpot
}

// NewSpotRepository numbers car spots first, then bike spots, starting at 1.
func NewSpotRepository(carSpots, bikeSpots int) *SpotRepository {
	spots := make([]*parking.ParkingSpot, 0, carSpots+bikeSpots)
	for i := 0; i < carSpots; i++ {
		spots = append(spots, parking.NewParkingSpot(len(spots)+1, parking.CategoryCar))
	}
	for i := 0; i < bikeSpots; i++ {
		spots = append(spots, parking.NewParkingSpot(len(spots)+1, parking.CategoryBike))
	}
	return NewSpotRepositoryFrom(spots...)
}

func NewSpotRepositoryFrom(spots ...*parking.ParkingSpot) *SpotRepository {
	byNumber := make(map[int]*parking.ParkingSpot, len(spots))
	for _, spot := range spots {
		s := *spot
		byNumber[s.Number] = &s
	}
	return &SpotRepository{spots: byNumber}
}

func (r *SpotRepository) FindAvailableSpot(_ context.Context, category parking.Category) (parking.ParkingSpot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *parking.ParkingSpot
	for _, spot := range r.spots {
		if !spot.Available || spot.Category != category {
			continue
		}
		if best == nil || spot.Number < best.Number {
			best = spot
		}
	}
	if best == nil {
		return parking.ParkingSpot{}, parking.ErrNotFound
	}
	return *best, nil
}

func (r *SpotRepository) UpdateAvailability(_ context.Context, number int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	spot, ok := r.spots[number]
	if !ok {
		return fmt.Errorf("spot %d: %w", number, parking.ErrNotFound)
	}
	spot.Available = available
	return nil
}

// Spots returns a snapshot ordered by spot number.
func (r *SpotRepository) Spots(_ context.Context) ([]parking.ParkingSpot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spots := make([]parking.ParkingSpot, 0, len(r.spots))
	for _, spot := range r.spots {
		spots = append(spots, *spot)
	}

	sort.Slice(spots, func(i, j int) bool {
		return spots[i].Number < spots[j].Number
	})

	return spots, nil
}

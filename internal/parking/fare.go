package parking

import "time"

const (
	CarRatePerHour  = 1.5
	BikeRatePerHour = 1.0

	// FreeHours is the grace period; stays up to and including it cost nothing.
	FreeHours = 0.5

	LoyaltyDiscountRate = 0.05
)

// RatePerHour returns the hourly rate for a category.
func RatePerHour(c Category) (float64, error) {
	switch c {
	case CategoryCar:
		return CarRatePerHour, nil
	case CategoryBike:
		return BikeRatePerHour, nil
	}
	return 0, &UnsupportedCategoryError{Value: c}
}

// FareCalculator prices closed tickets. It holds no state.
type FareCalculator struct{}

func NewFareCalculator() *FareCalculator {
	return &FareCalculator{}
}

// Calculate sets ticket.Price from the stay duration and category. Nothing
// else on the ticket is modified.
func (fc *FareCalculator) Calculate(ticket *Ticket, discount bool) error {
	if ticket.OutTime == nil || ticket.OutTime.Before(ticket.InTime) {
		return &InvalidStayError{InTime: ticket.InTime, OutTime: ticket.OutTime}
	}

	rate, err := RatePerHour(ticket.Spot.Category)
	if err != nil {
		return err
	}

	hours := durationInHours(ticket.InTime, *ticket.OutTime)

	price := 0.0
	if hours > FreeHours {
		price = hours * rate
	}
	if discount && price > 0 {
		price = price - price*LoyaltyDiscountRate
	}

	ticket.Price = price
	return nil
}

// durationInHours truncates each timestamp to whole minutes before
// subtracting, so sub-minute parts never add up across the boundary.
func durationInHours(in, out time.Time) float64 {
	return float64(epochMinutes(out)-epochMinutes(in)) / 60.0
}

func epochMinutes(t time.Time) int64 {
	return t.UnixMilli() / int64(time.Minute/time.Millisecond)
}

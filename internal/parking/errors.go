package parking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by repositories when a lookup matches nothing.
	ErrNotFound = errors.New("not found")

	ErrParkingFull          = errors.New("no parking spot available")
	ErrNoOpenTicket         = errors.New("no open ticket for vehicle")
	ErrVehicleAlreadyParked = errors.New("vehicle already has an open ticket")
)

// InvalidStayError reports a ticket whose out time is missing or earlier
// than its in time.
type InvalidStayError struct {
	InTime  time.Time
	OutTime *time.Time
}

func (e *InvalidStayError) Error() string {
	if e.OutTime == nil {
		return "out time provided is incorrect: <nil>"
	}
	return fmt.Sprintf("out time provided is incorrect: %s", e.OutTime.Format(time.RFC3339))
}

// UnsupportedCategoryError reports a category or menu selection outside
// {CAR, BIKE}.
type UnsupportedCategoryError struct {
	Value any
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("unsupported parking category: %v", e.Value)
}

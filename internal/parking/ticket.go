package parking

import "time"

// Ticket records one stay. A nil OutTime means the vehicle is still parked.
type Ticket struct {
	ID                 int64
	Spot               ParkingSpot
	RegistrationNumber string
	Price              float64
	InTime             time.Time
	OutTime            *time.Time
}

func NewTicket(spot ParkingSpot, registrationNumber string, inTime time.Time) *Ticket {
	return &Ticket{
		Spot:               spot,
		RegistrationNumber: registrationNumber,
		InTime:             inTime,
	}
}

func (t *Ticket) IsOpen() bool {
	return t.OutTime == nil
}

// Close stamps the out time. Price is left to the fare calculator.
func (t *Ticket) Close(outTime time.Time) {
	t.OutTime = &outTime
}

// Clone returns a deep copy so stores never share the OutTime pointer.
func (t *Ticket) Clone() *Ticket {
	c := *t
	if t.OutTime != nil {
		out := *t.OutTime
		c.OutTime = &out
	}
	return &c
}

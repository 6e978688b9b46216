package parking

import "context"

// SpotRepository owns the spot inventory and its availability flags.
type SpotRepository interface {
	// FindAvailableSpot returns the lowest-numbered available spot of the
	// category, or ErrNotFound.
	FindAvailableSpot(ctx context.Context, category Category) (ParkingSpot, error)
	UpdateAvailability(ctx context.Context, number int, available bool) error
}

// TicketRepository persists tickets. Lookups that match nothing return
// ErrNotFound.
type TicketRepository interface {
	SaveTicket(ctx context.Context, ticket *Ticket) error
	// GetOpenTicket returns the open ticket with the earliest in time.
	GetOpenTicket(ctx context.Context, registrationNumber string) (*Ticket, error)
	GetClosedTicketCount(ctx context.Context, registrationNumber string) (int, error)
	UpdateTicket(ctx context.Context, ticket *Ticket) error
	// GetLastClosedTicket returns the closed ticket with the latest out time.
	GetLastClosedTicket(ctx context.Context, registrationNumber string) (*Ticket, error)
}

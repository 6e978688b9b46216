package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking-system/internal/logging"
)

// Service runs the entry and exit workflows. It is not safe for concurrent
// use: one operator action completes before the next starts.
type Service struct {
	input     InputReader
	allocator *SpotAllocator
	tickets   TicketRepository
	fares     *FareCalculator
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for in and out timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(input InputReader, spots SpotRepository, tickets TicketRepository, opts ...Option) *Service {
	s := &Service{
		input:     input,
		allocator: NewSpotAllocator(spots),
		tickets:   tickets,
		fares:     NewFareCalculator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextAvailableSpot asks for a category and returns the spot the vehicle
// would get. Nothing is written.
func (s *Service) NextAvailableSpot(ctx context.Context) (ParkingSpot, error) {
	selection, err := s.input.ReadSelection()
	if err != nil {
		return ParkingSpot{}, fmt.Errorf("read category selection: %w", err)
	}

	category, err := CategoryFromSelection(selection)
	if err != nil {
		logging.Warn(ctx, "unrecognized category selection", "selection", selection)
		return ParkingSpot{}, err
	}

	spot, err := s.allocator.FindAvailableSpot(ctx, category)
	if errors.Is(err, ErrNotFound) {
		logging.Info(ctx, "no spot available", "category", category)
		return ParkingSpot{}, ErrParkingFull
	}
	if err != nil {
		return ParkingSpot{}, fmt.Errorf("find available %s spot: %w", category, err)
	}
	return spot, nil
}

// AvailableSpot is the read-only lookup for a known category.
func (s *Service) AvailableSpot(ctx context.Context, category Category) (ParkingSpot, error) {
	spot, err := s.allocator.FindAvailableSpot(ctx, category)
	if errors.Is(err, ErrNotFound) {
		return ParkingSpot{}, ErrParkingFull
	}
	return spot, err
}

// ProcessIncomingVehicle admits a vehicle and returns its open ticket.
func (s *Service) ProcessIncomingVehicle(ctx context.Context) (*Ticket, error) {
	spot, err := s.NextAvailableSpot(ctx)
	if err != nil {
		return nil, err
	}

	registration, err := s.input.ReadRegistrationNumber()
	if err != nil {
		return nil, err
	}

	_, err = s.tickets.GetOpenTicket(ctx, registration)
	switch {
	case err == nil:
		logging.Warn(ctx, "vehicle already parked", "registration", registration)
		return nil, ErrVehicleAlreadyParked
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("look up open ticket: %w", err)
	}

	if err := s.allocator.SetOccupancy(ctx, spot.Number, false); err != nil {
		logging.Error(ctx, "failed to occupy spot", "spot", spot.Number, "error", err)
		return nil, err
	}
	spot.Occupy()

	ticket := NewTicket(spot, registration, s.now())
	if err := s.tickets.SaveTicket(ctx, ticket); err != nil {
		logging.Error(ctx, "failed to save ticket, releasing spot", "spot", spot.Number, "error", err)
		if relErr := s.allocator.SetOccupancy(ctx, spot.Number, true); relErr != nil {
			logging.Error(ctx, "failed to release spot", "spot", spot.Number, "error", relErr)
			return nil, errors.Join(fmt.Errorf("save ticket: %w", err), relErr)
		}
		return nil, fmt.Errorf("save ticket: %w", err)
	}

	logging.Info(ctx, "vehicle entered",
		"registration", registration,
		"spot", spot.Number,
		"category", spot.Category,
	)
	return ticket, nil
}

// ProcessExitingVehicle closes the vehicle's open ticket, prices it and
// frees the spot. The spot stays occupied if the ticket cannot be updated.
func (s *Service) ProcessExitingVehicle(ctx context.Context) (*Ticket, error) {
	registration, err := s.input.ReadRegistrationNumber()
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetOpenTicket(ctx, registration)
	if errors.Is(err, ErrNotFound) {
		logging.Info(ctx, "no open ticket", "registration", registration)
		return nil, ErrNoOpenTicket
	}
	if err != nil {
		return nil, fmt.Errorf("get open ticket: %w", err)
	}

	closed, err := s.tickets.GetClosedTicketCount(ctx, registration)
	if err != nil {
		return nil, fmt.Errorf("count closed tickets: %w", err)
	}
	discount := closed > 0

	ticket.Close(s.now())
	if err := s.fares.Calculate(ticket, discount); err != nil {
		return nil, err
	}

	if err := s.tickets.UpdateTicket(ctx, ticket); err != nil {
		logging.Error(ctx, "failed to update ticket, spot left occupied",
			"ticket", ticket.ID,
			"spot", ticket.Spot.Number,
			"error", err,
		)
		return nil, fmt.Errorf("update ticket: %w", err)
	}

	if err := s.allocator.SetOccupancy(ctx, ticket.Spot.Number, true); err != nil {
		return nil, err
	}
	ticket.Spot.Release()

	logging.Info(ctx, "vehicle exited",
		"registration", registration,
		"spot", ticket.Spot.Number,
		"price", ticket.Price,
		"discount", discount,
	)
	return ticket, nil
}

func (s *Service) OpenTicket(ctx context.Context, registration string) (*Ticket, error) {
	return s.tickets.GetOpenTicket(ctx, registration)
}

func (s *Service) LastClosedTicket(ctx context.Context, registration string) (*Ticket, error) {
	return s.tickets.GetLastClosedTicket(ctx, registration)
}

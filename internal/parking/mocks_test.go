package parking

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockInput struct {
	mock.Mock
}

func (m *mockInput) ReadSelection() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *mockInput) ReadRegistrationNumber() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type mockSpots struct {
	mock.Mock
}

func (m *mockSpots) FindAvailableSpot(ctx context.Context, category Category) (ParkingSpot, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(ParkingSpot), args.Error(1)
}

func (m *mockSpots) UpdateAvailability(ctx context.Context, number int, available bool) error {
	args := m.Called(ctx, number, available)
	return args.Error(0)
}

type mockTickets struct {
	mock.Mock
}

func (m *mockTickets) SaveTicket(ctx context.Context, ticket *Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTickets) GetOpenTicket(ctx context.Context, registrationNumber string) (*Ticket, error) {
	args := m.Called(ctx, registrationNumber)
	ticket, _ := args.Get(0).(*Ticket)
	return ticket, args.Error(1)
}

func (m *mockTickets) GetClosedTicketCount(ctx context.Context, registrationNumber string) (int, error) {
	args := m.Called(ctx, registrationNumber)
	return args.Int(0), args.Error(1)
}

func (m *mockTickets) UpdateTicket(ctx context.Context, ticket *Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTickets) GetLastClosedTicket(ctx context.Context, registrationNumber string) (*Ticket, error) {
	args := m.Called(ctx, registrationNumber)
	ticket, _ := args.Get(0).(*Ticket)
	return ticket, args.Error(1)
}

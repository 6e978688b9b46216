package parking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	input   *mockInput
	spots   *mockSpots
	tickets *mockTickets
	service *Service
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		input:   &mockInput{},
		spots:   &mockSpots{},
		tickets: &mockTickets{},
	}
	f.input.Test(t)
	f.spots.Test(t)
	f.tickets.Test(t)
	f.service = NewService(f.input, f.spots, f.tickets, WithClock(func() time.Time { return now }))

	t.Cleanup(func() {
		f.input.AssertExpectations(t)
		f.spots.AssertExpectations(t)
		f.tickets.AssertExpectations(t)
	})
	return f
}

func openTicket(category Category, in time.Time) *Ticket {
	return &Ticket{
		ID:                 3,
		Spot:               ParkingSpot{Number: 1, Category: category},
		RegistrationNumber: "ABCDEF",
		InTime:             in,
	}
}

var ctx = context.Background()

func TestProcessIncomingVehicle(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).
		Return(ParkingSpot{Number: 1, Category: CategoryCar, Available: true}, nil)
	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(nil, ErrNotFound)
	f.spots.On("UpdateAvailability", mock.Anything, 1, false).Return(nil)
	f.tickets.On("SaveTicket", mock.Anything, mock.AnythingOfType("*parking.Ticket")).Return(nil)

	ticket, err := f.service.ProcessIncomingVehicle(ctx)
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF", ticket.RegistrationNumber)
	assert.Equal(t, 1, ticket.Spot.Number)
	assert.False(t, ticket.Spot.Available)
	assert.Equal(t, now, ticket.InTime)
	assert.Nil(t, ticket.OutTime)
	assert.Zero(t, ticket.Price)
}

func TestProcessIncomingVehicleNoSpotAvailable(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(SelectionBike, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryBike).Return(ParkingSpot{}, ErrNotFound)

	ticket, err := f.service.ProcessIncomingVehicle(ctx)

	assert.ErrorIs(t, err, ErrParkingFull)
	assert.Nil(t, ticket)
	f.spots.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
	f.tickets.AssertNotCalled(t, "SaveTicket", mock.Anything, mock.Anything)
}

func TestProcessIncomingVehicleUnrecognizedSelection(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(3, nil)

	ticket, err := f.service.ProcessIncomingVehicle(ctx)

	var categoryErr *UnsupportedCategoryError
	assert.ErrorAs(t, err, &categoryErr)
	assert.Nil(t, ticket)
	f.spots.AssertNotCalled(t, "FindAvailableSpot", mock.Anything, mock.Anything)
	f.spots.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
	f.tickets.AssertNotCalled(t, "SaveTicket", mock.Anything, mock.Anything)
}

func TestProcessIncomingVehicleAlreadyParked(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).
		Return(ParkingSpot{Number: 2, Category: CategoryCar, Available: true}, nil)
	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(openTicket(CategoryCar, now.Add(-time.Hour)), nil)

	_, err := f.service.ProcessIncomingVehicle(ctx)

	assert.ErrorIs(t, err, ErrVehicleAlreadyParked)
	f.spots.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
	f.tickets.AssertNotCalled(t, "SaveTicket", mock.Anything, mock.Anything)
}

func TestProcessIncomingVehicleSaveFailureReleasesSpot(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("insert failed")

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).
		Return(ParkingSpot{Number: 1, Category: CategoryCar, Available: true}, nil)
	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(nil, ErrNotFound)
	f.spots.On("UpdateAvailability", mock.Anything, 1, false).Return(nil).Once()
	f.tickets.On("SaveTicket", mock.Anything, mock.Anything).Return(boom)
	f.spots.On("UpdateAvailability", mock.Anything, 1, true).Return(nil).Once()

	_, err := f.service.ProcessIncomingVehicle(ctx)

	assert.ErrorIs(t, err, boom)
}

func TestProcessIncomingVehicleOccupyFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("update failed")

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).
		Return(ParkingSpot{Number: 1, Category: CategoryCar, Available: true}, nil)
	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(nil, ErrNotFound)
	f.spots.On("UpdateAvailability", mock.Anything, 1, false).Return(boom)

	_, err := f.service.ProcessIncomingVehicle(ctx)

	assert.ErrorIs(t, err, boom)
	f.tickets.AssertNotCalled(t, "SaveTicket", mock.Anything, mock.Anything)
}

func TestProcessIncomingVehicleFindStorageError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).Return(ParkingSpot{}, boom)

	_, err := f.service.ProcessIncomingVehicle(ctx)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrParkingFull)
}

func TestNextAvailableSpot(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).
		Return(ParkingSpot{Number: 1, Category: CategoryCar, Available: true}, nil).Once()

	spot, err := f.service.NextAvailableSpot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, spot.Number)
	assert.True(t, spot.Available)
}

func TestNextAvailableSpotNotFound(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(SelectionCar, nil)
	f.spots.On("FindAvailableSpot", mock.Anything, CategoryCar).Return(ParkingSpot{}, ErrNotFound).Once()

	_, err := f.service.NextAvailableSpot(ctx)
	assert.ErrorIs(t, err, ErrParkingFull)
}

func TestNextAvailableSpotReadError(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadSelection").Return(0, errors.New("stdin closed"))

	_, err := f.service.NextAvailableSpot(ctx)
	assert.ErrorContains(t, err, "stdin closed")
}

func TestProcessExitingVehicle(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(openTicket(CategoryCar, now.Add(-time.Hour)), nil)
	f.tickets.On("GetClosedTicketCount", mock.Anything, "ABCDEF").Return(0, nil)
	f.tickets.On("UpdateTicket", mock.Anything, mock.MatchedBy(func(t *Ticket) bool {
		return t.OutTime != nil && t.OutTime.Equal(now) && t.Price == 1.5
	})).Return(nil)
	f.spots.On("UpdateAvailability", mock.Anything, 1, true).Return(nil)

	ticket, err := f.service.ProcessExitingVehicle(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, ticket.Price, 1e-9)
	assert.True(t, ticket.Spot.Available)
	assert.False(t, ticket.IsOpen())
}

func TestProcessExitingVehicleReturningCustomer(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(openTicket(CategoryCar, now.Add(-time.Hour)), nil)
	f.tickets.On("GetClosedTicketCount", mock.Anything, "ABCDEF").Return(1, nil)
	f.tickets.On("UpdateTicket", mock.Anything, mock.Anything).Return(nil)
	f.spots.On("UpdateAvailability", mock.Anything, 1, true).Return(nil)

	ticket, err := f.service.ProcessExitingVehicle(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 1.425, ticket.Price, 1e-9)
}

func TestProcessExitingVehicleUpdateFailureKeepsSpotOccupied(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(openTicket(CategoryCar, now.Add(-time.Hour)), nil)
	f.tickets.On("GetClosedTicketCount", mock.Anything, "ABCDEF").Return(0, nil)
	f.tickets.On("UpdateTicket", mock.Anything, mock.Anything).Return(errors.New("update failed"))

	_, err := f.service.ProcessExitingVehicle(ctx)

	assert.ErrorContains(t, err, "update failed")
	f.spots.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessExitingVehicleNoOpenTicket(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadRegistrationNumber").Return("ZZZZZZ", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ZZZZZZ").Return(nil, ErrNotFound)

	_, err := f.service.ProcessExitingVehicle(ctx)

	assert.ErrorIs(t, err, ErrNoOpenTicket)
	f.tickets.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything)
	f.spots.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessExitingVehicleClockBeforeEntry(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(openTicket(CategoryBike, now.Add(time.Minute)), nil)
	f.tickets.On("GetClosedTicketCount", mock.Anything, "ABCDEF").Return(0, nil)

	_, err := f.service.ProcessExitingVehicle(ctx)

	var stayErr *InvalidStayError
	assert.ErrorAs(t, err, &stayErr)
	f.tickets.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything)
	f.spots.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessExitingVehicleCountFailure(t *testing.T) {
	f := newFixture(t)

	f.input.On("ReadRegistrationNumber").Return("ABCDEF", nil)
	f.tickets.On("GetOpenTicket", mock.Anything, "ABCDEF").Return(openTicket(CategoryCar, now.Add(-time.Hour)), nil)
	f.tickets.On("GetClosedTicketCount", mock.Anything, "ABCDEF").Return(0, errors.New("timeout"))

	_, err := f.service.ProcessExitingVehicle(ctx)

	assert.ErrorContains(t, err, "timeout")
	f.tickets.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything)
}

func TestAvailableSpotRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AvailableSpot(ctx, Category("TRUCK"))

	var categoryErr *UnsupportedCategoryError
	assert.ErrorAs(t, err, &categoryErr)
	f.spots.AssertNotCalled(t, "FindAvailableSpot", mock.Anything, mock.Anything)
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"parking-system/internal/parking"
)

// TicketRepository keeps tickets in insertion order. Tickets are copied on
// the way in and out so callers never alias stored state.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets []*parking.Ticket
	nextID  int64
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{nextID: 1}
}

func (r *TicketRepository) SaveTicket(_ context.Context, ticket *parking.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket.ID = r.nextID
	r.nextID++
	r.tickets = append(r.tickets, ticket.Clone())
	return nil
}

func (r *TicketRepository) GetOpenTicket(_ context.Context, registrationNumber string) (*parking.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *parking.Ticket
	for _, t := range r.tickets {
		if t.RegistrationNumber != registrationNumber || !t.IsOpen() {
			continue
		}
		if found == nil || t.InTime.Before(found.InTime) {
			found = t
		}
	}
	if found == nil {
		return nil, parking.ErrNotFound
	}
	return found.Clone(), nil
}

func (r *TicketRepository) GetClosedTicketCount(_ context.Context, registrationNumber string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, t := range r.tickets {
		if t.RegistrationNumber == registrationNumber && !t.IsOpen() {
			count++
		}
	}
	return count, nil
}

// UpdateTicket writes price and out time, like the SQL store.
func (r *TicketRepository) UpdateTicket(_ context.Context, ticket *parking.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.ID != ticket.ID {
			continue
		}
		updated := ticket.Clone()
		t.Price = updated.Price
		t.OutTime = updated.OutTime
		return nil
	}
	return fmt.Errorf("ticket %d: %w", ticket.ID, parking.ErrNotFound)
}

func (r *TicketRepository) GetLastClosedTicket(_ context.Context, registrationNumber string) (*parking.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *parking.Ticket
	for _, t := range r.tickets {
		if t.RegistrationNumber != registrationNumber || t.IsOpen() {
			continue
		}
		if found == nil || t.OutTime.After(*found.OutTime) {
			found = t
		}
	}
	if found == nil {
		return nil, parking.ErrNotFound
	}
	return found.Clone(), nil
}

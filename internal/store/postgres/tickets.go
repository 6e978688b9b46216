package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"parking-system/internal/parking"
)

const ticketColumns = `
	t.id, t.parking_number, t.vehicle_reg_number, t.price, t.in_time, t.out_time,
	p.type, p.available`

type ticketRow struct {
	ID                 int64        `db:"id"`
	ParkingNumber      int          `db:"parking_number"`
	RegistrationNumber string       `db:"vehicle_reg_number"`
	Price              float64      `db:"price"`
	InTime             time.Time    `db:"in_time"`
	OutTime            sql.NullTime `db:"out_time"`
	Type               string       `db:"type"`
	Available          bool         `db:"available"`
}

func (r ticketRow) toTicket() *parking.Ticket {
	t := &parking.Ticket{
		ID: r.ID,
		Spot: parking.ParkingSpot{
			Number:    r.ParkingNumber,
			Category:  parking.Category(r.Type),
			Available: r.Available,
		},
		RegistrationNumber: r.RegistrationNumber,
		Price:              r.Price,
		InTime:             r.InTime,
	}
	if r.OutTime.Valid {
		out := r.OutTime.Time
		t.OutTime = &out
	}
	return t
}

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) SaveTicket(ctx context.Context, ticket *parking.Ticket) error {
	query := `
		INSERT INTO ticket (parking_number, vehicle_reg_number, price, in_time, out_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var outTime sql.NullTime
	if ticket.OutTime != nil {
		outTime = sql.NullTime{Time: *ticket.OutTime, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		ticket.Spot.Number, ticket.RegistrationNumber, ticket.Price, ticket.InTime, outTime,
	).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("TicketRepository.SaveTicket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetOpenTicket(ctx context.Context, registrationNumber string) (*parking.Ticket, error) {
	query := `
		SELECT` + ticketColumns + `
		FROM ticket t
		JOIN parking p ON p.parking_number = t.parking_number
		WHERE t.vehicle_reg_number = $1 AND t.out_time IS NULL
		ORDER BY t.in_time
		LIMIT 1`

	return r.getOne(ctx, "GetOpenTicket", query, registrationNumber)
}

func (r *TicketRepository) GetClosedTicketCount(ctx context.Context, registrationNumber string) (int, error) {
	query := `SELECT COUNT(id) FROM ticket WHERE vehicle_reg_number = $1 AND out_time IS NOT NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, registrationNumber); err != nil {
		return 0, fmt.Errorf("TicketRepository.GetClosedTicketCount: %w", err)
	}
	return count, nil
}

func (r *TicketRepository) UpdateTicket(ctx context.Context, ticket *parking.Ticket) error {
	query := `UPDATE ticket SET price = $1, out_time = $2 WHERE id = $3`

	var outTime sql.NullTime
	if ticket.OutTime != nil {
		outTime = sql.NullTime{Time: *ticket.OutTime, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, ticket.Price, outTime, ticket.ID)
	if err != nil {
		return fmt.Errorf("TicketRepository.UpdateTicket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("TicketRepository.UpdateTicket: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ticket %d: %w", ticket.ID, parking.ErrNotFound)
	}
	return nil
}

func (r *TicketRepository) GetLastClosedTicket(ctx context.Context, registrationNumber string) (*parking.Ticket, error) {
	query := `
		SELECT` + ticketColumns + `
		FROM ticket t
		JOIN parking p ON p.parking_number = t.parking_number
		WHERE t.vehicle_reg_number = $1 AND t.out_time IS NOT NULL
		ORDER BY t.out_time DESC
		LIMIT 1`

	return r.getOne(ctx, "GetLastClosedTicket", query, registrationNumber)
}

func (r *TicketRepository) getOne(ctx context.Context, op, query string, args ...any) (*parking.Ticket, error) {
	var row ticketRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, parking.ErrNotFound
		}
		return nil, fmt.Errorf("TicketRepository.%s: %w", op, err)
	}
	return row.toTicket(), nil
}

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parking-system/internal/logging"
	"parking-system/internal/parking"
)

// Lookup is the read side of the parking service.
type Lookup interface {
	AvailableSpot(ctx context.Context, category parking.Category) (parking.ParkingSpot, error)
	OpenTicket(ctx context.Context, registration string) (*parking.Ticket, error)
	LastClosedTicket(ctx context.Context, registration string) (*parking.Ticket, error)
}

// Inventory lists every spot with its current availability.
type Inventory interface {
	Spots(ctx context.Context) ([]parking.ParkingSpot, error)
}

type Handler struct {
	serviceName string
	lookup      Lookup
	inventory   Inventory
}

func NewHandler(serviceName string, lookup Lookup, inventory Inventory) *Handler {
	return &Handler{
		serviceName: serviceName,
		lookup:      lookup,
		inventory:   inventory,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": h.serviceName,
		"meta":    extractMeta(r.Context()),
	})
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	spots, err := h.inventory.Spots(ctx)
	if err != nil {
		logging.Error(ctx, "failed to list spots", "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to list parking spots")
		return
	}

	response := InventoryResponse{
		Categories: map[string]CategoryStatus{},
		Spots:      make([]SpotResponse, 0, len(spots)),
	}
	for _, spot := range spots {
		status := response.Categories[spot.Category.String()]
		status.Total++
		if spot.Available {
			status.Available++
		}
		response.Categories[spot.Category.String()] = status
		response.Spots = append(response.Spots, newSpotResponse(spot))
	}

	WriteSuccess(ctx, w, "Inventory retrieved successfully", response)
}

func (h *Handler) GetAvailableSpot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, err := parking.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	spot, err := h.lookup.AvailableSpot(ctx, category)
	if errors.Is(err, parking.ErrParkingFull) {
		WriteError(ctx, w, http.StatusNotFound, "No spot available for "+category.String())
		return
	}
	if err != nil {
		logging.Error(ctx, "failed to find available spot", "category", category, "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to find available spot")
		return
	}

	WriteSuccess(ctx, w, "Spot available", newSpotResponse(spot))
}

func (h *Handler) GetOpenTicket(w http.ResponseWriter, r *http.Request) {
	h.writeTicket(w, r, h.lookup.OpenTicket, "Vehicle is not parked")
}

func (h *Handler) GetLastClosedTicket(w http.ResponseWriter, r *http.Request) {
	h.writeTicket(w, r, h.lookup.LastClosedTicket, "No completed stay for vehicle")
}

func (h *Handler) writeTicket(w http.ResponseWriter, r *http.Request,
	find func(context.Context, string) (*parking.Ticket, error), notFound string) {
	ctx := r.Context()

	registration := chi.URLParam(r, "registration")
	if registration == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Registration number is required")
		return
	}

	ticket, err := find(ctx, registration)
	if errors.Is(err, parking.ErrNotFound) {
		WriteError(ctx, w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		logging.Error(ctx, "failed to look up ticket", "registration", registration, "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to look up ticket")
		return
	}

	WriteSuccess(ctx, w, "Ticket found", newTicketResponse(ticket))
}

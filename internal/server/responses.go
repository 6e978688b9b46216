package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"parking-system/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type SpotResponse struct {
	Number    int    `json:"number"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

type CategoryStatus struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

type InventoryResponse struct {
	Categories map[string]CategoryStatus `json:"categories"`
	Spots      []SpotResponse            `json:"spots"`
}

type TicketResponse struct {
	ID           int64      `json:"id"`
	Registration string     `json:"registration"`
	SpotNumber   int        `json:"spot_number"`
	Category     string     `json:"category"`
	InTime       time.Time  `json:"in_time"`
	OutTime      *time.Time `json:"out_time,omitempty"`
	Price        float64    `json:"price"`
}

func newSpotResponse(s parking.ParkingSpot) SpotResponse {
	return SpotResponse{
		Number:    s.Number,
		Category:  s.Category.String(),
		Available: s.Available,
	}
}

func newTicketResponse(t *parking.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		Registration: t.RegistrationNumber,
		SpotNumber:   t.Spot.Number,
		Category:     t.Spot.Category.String(),
		InTime:       t.InTime,
		OutTime:      t.OutTime,
		Price:        t.Price,
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}

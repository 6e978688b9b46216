package parking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedService struct {
	*Service
	telemetry *TelemetryProvider

	// Metrics
	entryOperations   metric.Int64Counter
	exitOperations    metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	fareAmount        metric.Float64Histogram
	operationDuration metric.Float64Histogram
}

func NewInstrumentedService(service *Service, telemetry *TelemetryProvider) (*InstrumentedService, error) {
	meter := telemetry.Meter()

	entryOperations, err := meter.Int64Counter("parking_entries_total",
		metric.WithDescription("Total number of vehicle entry workflows"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	exitOperations, err := meter.Int64Counter("parking_exits_total",
		metric.WithDescription("Total number of vehicle exit workflows"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_spots_occupied",
		metric.WithDescription("Spots occupied through this terminal"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	fareAmount, err := meter.Float64Histogram("parking_fare_amount",
		metric.WithDescription("Fare charged on exit"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking workflows"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedService{
		Service:           service,
		telemetry:         telemetry,
		entryOperations:   entryOperations,
		exitOperations:    exitOperations,
		occupancyGauge:    occupancyGauge,
		fareAmount:        fareAmount,
		operationDuration: operationDuration,
	}, nil
}

func (is *InstrumentedService) ProcessIncomingVehicle(ctx context.Context) (*Ticket, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking.process_incoming_vehicle")
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_available_spot")

	ticket, err := is.Service.ProcessIncomingVehicle(ctx)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "entry"),
		attribute.String("status", outcome(err)),
	}

	if err != nil {
		recordFailure(span, err)
	} else {
		labels = append(labels, attribute.String("category", ticket.Spot.Category.String()))
		span.SetAttributes(
			attribute.String("vehicle.registration_number", ticket.RegistrationNumber),
			attribute.Int("parking.spot_number", ticket.Spot.Number),
			attribute.String("parking.category", ticket.Spot.Category.String()),
		)
		span.AddEvent("ticket_issued", trace.WithAttributes(
			attribute.Int64("ticket.id", ticket.ID),
		))
		is.occupancyGauge.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", ticket.Spot.Category.String()),
		))
	}

	is.entryOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	is.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ticket, err
}

func (is *InstrumentedService) ProcessExitingVehicle(ctx context.Context) (*Ticket, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking.process_exiting_vehicle")
	defer span.End()

	start := time.Now()

	span.AddEvent("retrieving_open_ticket")

	ticket, err := is.Service.ProcessExitingVehicle(ctx)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "exit"),
		attribute.String("status", outcome(err)),
	}

	if err != nil {
		recordFailure(span, err)
	} else {
		category := attribute.String("category", ticket.Spot.Category.String())
		labels = append(labels, category)
		span.SetAttributes(
			attribute.String("vehicle.registration_number", ticket.RegistrationNumber),
			attribute.Int("parking.spot_number", ticket.Spot.Number),
			attribute.Float64("parking.fare", ticket.Price),
		)
		span.AddEvent("spot_released")
		is.occupancyGauge.Add(ctx, -1, metric.WithAttributes(category))
		is.fareAmount.Record(ctx, ticket.Price, metric.WithAttributes(category))
	}

	is.exitOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	is.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ticket, err
}

func (is *InstrumentedService) AvailableSpot(ctx context.Context, category Category) (ParkingSpot, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking.available_spot",
		trace.WithAttributes(attribute.String("parking.category", category.String())))
	defer span.End()

	start := time.Now()

	spot, err := is.Service.AvailableSpot(ctx, category)

	labels := []attribute.KeyValue{
		attribute.String("operation", "available_spot"),
		attribute.String("status", outcome(err)),
	}
	if err != nil {
		span.AddEvent("no_spot_available")
	} else {
		span.SetAttributes(attribute.Int("parking.spot_number", spot.Number))
	}

	is.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return spot, err
}

// Expected negative results are events, not span errors.
func recordFailure(span trace.Span, err error) {
	switch {
	case errors.Is(err, ErrParkingFull), errors.Is(err, ErrNoOpenTicket), errors.Is(err, ErrVehicleAlreadyParked):
		span.AddEvent("workflow_aborted", trace.WithAttributes(
			attribute.String("reason", err.Error()),
		))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func outcome(err error) string {
	var stayErr *InvalidStayError
	var categoryErr *UnsupportedCategoryError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrParkingFull):
		return "full"
	case errors.Is(err, ErrNoOpenTicket):
		return "no_open_ticket"
	case errors.Is(err, ErrVehicleAlreadyParked):
		return "already_parked"
	case errors.As(err, &categoryErr):
		return "unsupported_category"
	case errors.As(err, &stayErr):
		return "invalid_stay"
	}
	return "failed"
}

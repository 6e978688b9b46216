package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Workflows is what the shell drives. *Service and *InstrumentedService
// both satisfy it.
type Workflows interface {
	ProcessIncomingVehicle(ctx context.Context) (*Ticket, error)
	ProcessExitingVehicle(ctx context.Context) (*Ticket, error)
}

const (
	menuIncoming = "1"
	menuExiting  = "2"
	menuShutdown = "3"
)

const timeLayout = "2006-01-02 15:04:05"

// InstrumentedShell is the operator terminal. It shares its scanner with the
// ConsoleReader used by the workflows.
type InstrumentedShell struct {
	workflows Workflows
	scanner   *bufio.Scanner
	out       io.Writer
	telemetry *TelemetryProvider
}

func NewInstrumentedShell(workflows Workflows, scanner *bufio.Scanner, out io.Writer, telemetry *TelemetryProvider) *InstrumentedShell {
	return &InstrumentedShell{
		workflows: workflows,
		scanner:   scanner,
		out:       out,
		telemetry: telemetry,
	}
}

func (s *InstrumentedShell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")
	fmt.Fprintln(s.out, "Welcome to Parking System!")

	for ctx.Err() == nil {
		s.printMenu()

		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		done := s.processCommand(cmdCtx, input)
		cmdSpan.End()

		if done {
			break
		}
	}

	span.AddEvent("shell_ended")
}

func (s *InstrumentedShell) printMenu() {
	fmt.Fprintln(s.out, "Please select an option. Simply enter the number to choose an action")
	fmt.Fprintln(s.out, "1 New Vehicle Entering - Allocate Parking Space")
	fmt.Fprintln(s.out, "2 Vehicle Exiting - Generate Ticket Price")
	fmt.Fprintln(s.out, "3 Shutdown System")
}

// processCommand reports whether the operator asked to shut down.
func (s *InstrumentedShell) processCommand(ctx context.Context, input string) bool {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("command.name", input))

	switch input {
	case menuIncoming:
		s.handleIncoming(ctx)
	case menuExiting:
		s.handleExiting(ctx)
	case menuShutdown:
		span.AddEvent("shutdown_requested")
		fmt.Fprintln(s.out, "Exiting from the system!")
		return true
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", input),
		))
		fmt.Fprintln(s.out, "Unsupported option. Please enter a number corresponding to the provided menu")
	}
	return false
}

func (s *InstrumentedShell) handleIncoming(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.incoming_command")
	defer span.End()

	ticket, err := s.workflows.ProcessIncomingVehicle(ctx)
	if err != nil {
		span.AddEvent("entry_failed")
		fmt.Fprintln(s.out, entryMessage(err))
		return
	}

	span.AddEvent("entry_successful", trace.WithAttributes(
		attribute.Int("allocated_spot", ticket.Spot.Number),
	))
	fmt.Fprintln(s.out, "Generated Ticket and saved in DB")
	fmt.Fprintf(s.out, "Please park your vehicle in spot number: %d\n", ticket.Spot.Number)
	fmt.Fprintf(s.out, "Recorded in-time for vehicle number: %s is: %s\n",
		ticket.RegistrationNumber, ticket.InTime.Format(timeLayout))
}

func (s *InstrumentedShell) handleExiting(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.exiting_command")
	defer span.End()

	ticket, err := s.workflows.ProcessExitingVehicle(ctx)
	if err != nil {
		span.AddEvent("exit_failed")
		fmt.Fprintln(s.out, exitMessage(err))
		return
	}

	span.AddEvent("exit_successful", trace.WithAttributes(
		attribute.Float64("fare", ticket.Price),
	))
	fmt.Fprintf(s.out, "Please pay the parking fare: %.2f\n", ticket.Price)
	fmt.Fprintf(s.out, "Recorded out-time for vehicle number: %s is: %s\n",
		ticket.RegistrationNumber, ticket.OutTime.Format(timeLayout))
}

func entryMessage(err error) string {
	var categoryErr *UnsupportedCategoryError
	switch {
	case errors.As(err, &categoryErr):
		return "Incorrect input provided"
	case errors.Is(err, ErrParkingFull):
		return "Error fetching parking number from DB. Parking slots might be full"
	case errors.Is(err, ErrVehicleAlreadyParked):
		return "This vehicle is already parked"
	case errors.Is(err, ErrEmptyRegistration):
		return "Invalid input provided"
	}
	return fmt.Sprintf("Unable to process incoming vehicle: %s", err)
}

func exitMessage(err error) string {
	var stayErr *InvalidStayError
	switch {
	case errors.Is(err, ErrNoOpenTicket):
		return "No vehicle parked with this registration number"
	case errors.As(err, &stayErr):
		return fmt.Sprintf("Unable to compute the fare: %s", err)
	case errors.Is(err, ErrEmptyRegistration):
		return "Invalid input provided"
	}
	return fmt.Sprintf("Unable to update ticket information. Error occurred: %s", err)
}

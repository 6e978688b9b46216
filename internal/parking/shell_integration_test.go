package parking_test

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"parking-system/internal/parking"
	"parking-system/internal/store/memory"
)

func TestShellDrivesWorkflowsFromConsole(t *testing.T) {
	ctx := context.Background()

	scanner := bufio.NewScanner(strings.NewReader("1\n1\nABCDEF\n2\nABCDEF\n1\n3\n3\n"))
	var out bytes.Buffer

	spots := memory.NewSpotRepository(1, 1)
	tickets := memory.NewTicketRepository()
	clk := &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	ticks := 0
	tick := func() time.Time {
		ticks++
		return clk.now.Add(time.Duration(ticks-1) * 90 * time.Minute)
	}

	service := parking.NewService(parking.NewConsoleReader(scanner, &out), spots, tickets, parking.WithClock(tick))

	telemetry := parking.NewTelemetryProviderWith("parking-test",
		sdktrace.NewTracerProvider(), sdkmetric.NewMeterProvider())
	defer telemetry.Shutdown(ctx)

	instrumented, err := parking.NewInstrumentedService(service, telemetry)
	require.NoError(t, err)

	parking.NewInstrumentedShell(instrumented, scanner, &out, telemetry).Run(ctx)

	text := out.String()
	assert.Contains(t, text, "Please park your vehicle in spot number: 1")
	assert.Contains(t, text, "Please pay the parking fare: 2.25")
	assert.Contains(t, text, "Incorrect input provided")
	assert.Contains(t, text, "Exiting from the system!")

	last, err := tickets.GetLastClosedTicket(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.InDelta(t, 2.25, last.Price, 1e-9)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-system/internal/config"
	"parking-system/internal/logging"
	"parking-system/internal/parking"
	"parking-system/internal/server"
	"parking-system/internal/store/memory"
	"parking-system/internal/store/postgres"
)

var (
	mode = flag.String("mode", "cli", "Mode to run: cli, server, or both")
	port = flag.String("port", "", "Port for HTTP server (overrides PORT)")
)

type spotStore interface {
	parking.SpotRepository
	server.Inventory
}

type app struct {
	cfg       *config.Config
	telemetry *parking.TelemetryProvider
	service   *parking.InstrumentedService
	spots     spotStore
	scanner   *bufio.Scanner
	close     func() error
}

func main() {
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := parking.NewTelemetryProvider(cfg.OTelConfig.ServiceName, cfg.OTelConfig.OTLPEndpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.OTelConfig.ServiceName, cfg.Environment, nil)

	a, err := newApp(ctx, cfg, telemetryProvider)
	if err != nil {
		logging.Error(ctx, "failed to start", "error", err)
		shutdownTelemetry(telemetryProvider)
		os.Exit(1)
	}
	defer func() {
		if err := a.close(); err != nil {
			logging.Error(context.Background(), "failed to close store", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "cli":
		a.runCLI(ctx, cancel, sigChan)
	case "server":
		a.runServer(ctx, cancel, sigChan)
	case "both":
		a.runBoth(ctx, cancel, sigChan)
	default:
		logging.Error(ctx, "invalid mode, must be cli, server, or both", "mode", *mode)
	}

	shutdownTelemetry(telemetryProvider)
}

func newApp(ctx context.Context, cfg *config.Config, telemetryProvider *parking.TelemetryProvider) (*app, error) {
	spots, tickets, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(os.Stdin)
	input := parking.NewConsoleReader(scanner, os.Stdout)

	service, err := parking.NewInstrumentedService(parking.NewService(input, spots, tickets), telemetryProvider)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("instrument service: %w", err)
	}

	return &app{
		cfg:       cfg,
		telemetry: telemetryProvider,
		service:   service,
		spots:     spots,
		scanner:   scanner,
		close:     closeStore,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (spotStore, parking.TicketRepository, func() error, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logging.Info(ctx, "using in-memory store",
			"car_spots", cfg.Inventory.CarSpots,
			"bike_spots", cfg.Inventory.BikeSpots,
		)
		spots := memory.NewSpotRepository(cfg.Inventory.CarSpots, cfg.Inventory.BikeSpots)
		return spots, memory.NewTicketRepository(), func() error { return nil }, nil

	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBTimeout)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		if err := postgres.SeedInventory(ctx, db, cfg.Inventory.CarSpots, cfg.Inventory.BikeSpots); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("seed inventory: %w", err)
		}
		logging.Info(ctx, "using postgres store")
		return postgres.NewSpotRepository(db), postgres.NewTicketRepository(db), db.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func (a *app) newServer() *server.Server {
	handler := server.NewHandler(a.cfg.OTelConfig.ServiceName, a.service, a.spots)
	return server.NewServer(a.cfg.Port, handler)
}

func (a *app) newShell() *parking.InstrumentedShell {
	return parking.NewInstrumentedShell(a.service, a.scanner, os.Stdout, a.telemetry)
}

func (a *app) runCLI(ctx context.Context, cancel context.CancelFunc, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		logging.Info(ctx, "shutting down")
		cancel()
	}()

	a.newShell().Run(ctx)
}

func (a *app) runServer(ctx context.Context, cancel context.CancelFunc, sigChan chan os.Signal) {
	srv := a.newServer()

	go func() {
		<-sigChan
		logging.Info(ctx, "received shutdown signal")
		shutdownServer(srv)
		cancel()
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error(ctx, "server error", "error", err)
	}
}

func (a *app) runBoth(ctx context.Context, cancel context.CancelFunc, sigChan chan os.Signal) {
	srv := a.newServer()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan struct{})
	go func() {
		a.newShell().Run(ctx)
		close(cliDone)
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "server error", "error", err)
		}
	case <-cliDone:
		logging.Info(ctx, "CLI exited")
		shutdownServer(srv)
	case <-sigChan:
		logging.Info(ctx, "received shutdown signal")
		shutdownServer(srv)
	}
	cancel()
}

func shutdownServer(srv *server.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, "server shutdown error", "error", err)
	}
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error shutting down telemetry: %v\n", err)
	}
}

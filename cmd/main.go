package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"restaurant-platform/internal/config"
	"restaurant-platform/internal/database"
	"restaurant-platform/internal/gateway"
	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/messaging"
	"restaurant-platform/internal/services/menu"
	"restaurant-platform/internal/services/notification"
	"restaurant-platform/internal/services/order"
	"restaurant-platform/internal/services/staff"
	"restaurant-platform/internal/services/table"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (gateway, staff-service, menu-service, order-service, table-service)")
		port       = flag.Int("port", 3000, "HTTP port")
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "gateway":
		err = gateway.Run(ctx, cfg, *port, log)
	case "staff-service":
		err = runStaffService(ctx, cfg, log, *port)
	case "menu-service":
		err = runMenuService(ctx, cfg, log, *port)
	case "order-service":
		err = runOrderService(ctx, cfg, log, *port)
	case "table-service":
		err = runTableService(ctx, cfg, log, *port)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runOrderService runs the order HTTP API together with the event bus
// listener feeding websocket subscribers.
func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	queueName, err := conn.DeclareEventQueue()
	if err != nil {
		return fmt.Errorf("failed to declare event queue: %w", err)
	}

	publisher := messaging.NewPublisher(conn, log)
	pricer := order.NewMenuClient(cfg.Services.MenuURL+"/items", log)
	tables := order.NewTableClient(cfg.Services.TableURL+"/tables", log)
	repo := order.NewPostgresRepository(db)
	service := order.NewService(repo, pricer, tables, publisher, log)

	registry := notification.NewRegistry(log)
	ws := notification.NewWSHandler(registry, log)
	consumer := messaging.NewConsumer(conn, log, queueName, "order-service")
	listener := notification.NewListener(consumer, registry, log)

	handler := order.NewHandler(service, ws, log)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return listener.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info("server_started", fmt.Sprintf("Order service listening on port %d", port), requestID, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func runStaffService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	service := staff.NewService(staff.NewPostgresRepository(db), cfg.Auth, log)
	handler := staff.NewHandler(service, log)

	return serveHTTP(ctx, log, port, "Staff service", handler.SetupRoutes(), requestID)
}

func runMenuService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	service := menu.NewService(menu.NewPostgresRepository(db), log)
	handler := menu.NewHandler(service, log)

	return serveHTTP(ctx, log, port, "Menu service", handler.SetupRoutes(), requestID)
}

func runTableService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	handler := table.NewHandler(table.NewPostgresRepository(db), log)

	return serveHTTP(ctx, log, port, "Table service", handler.SetupRoutes(), requestID)
}

// serveHTTP runs a server until the context is canceled, then shuts it
// down with a 10 second grace period.
func serveHTTP(ctx context.Context, log *logger.Logger, port int, name string, mux *http.ServeMux, requestID string) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", fmt.Sprintf("%s listening on port %d", name, port), requestID, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

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

	"neonfood/internal/config"
	"neonfood/internal/database"
	"neonfood/internal/kitchen"
	"neonfood/internal/logger"
	"neonfood/internal/messaging"
	"neonfood/internal/metrics"
	"neonfood/internal/notify"
	"neonfood/internal/order"
	"neonfood/internal/report"
	"neonfood/internal/settings"
)

func main() {
	var (
		mode         = flag.String("mode", "", "Service mode (order-service, kitchen-display, notification-subscriber, reporter)")
		port         = flag.Int("port", 0, "HTTP port (order-service)")
		configPath   = flag.String("config", "config.yaml", "Path to config file")
		reportPeriod = flag.String("period", "daily", "Report period (reporter): daily or weekly")
		prefetch     = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
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
	if *port == 0 {
		*port = cfg.Server.Port
	}
	if *port == 0 {
		*port = 3000
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", requestID, fmt.Sprintf("Starting %s", *mode), map[string]any{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", requestID, "Received shutdown signal", nil)
		cancel()
	}()

	switch *mode {
	case "order-service":
		err = runOrderService(ctx, cfg, log, *port)
	case "kitchen-display":
		err = runKitchenDisplay(ctx, cfg, log, *prefetch)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	case "reporter":
		err = runReporter(ctx, cfg, log, *reportPeriod)
	default:
		log.Error("validation_failed", requestID, fmt.Sprintf("Unknown mode: %s", *mode), nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", requestID, fmt.Sprintf("%s failed", *mode), err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", requestID, "Service stopped gracefully", nil)
}

// runOrderService wires the HTTP API: checkout, order lifecycle, settings
// and metrics.
func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", requestID, "Connected to PostgreSQL database", nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	provider := settings.NewProvider(settings.NewPostgresStore(db), log)
	if _, err := provider.Get(ctx); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	reg := metrics.NewRegistry()

	dispatcher := notify.NewDispatcher(provider, log, reg)
	dispatcher.RegisterAll(notify.NewLogSink(log))

	var tickets order.TicketPublisher
	conn, err := messaging.New(cfg, log)
	if err != nil {
		// The platform stays usable without a broker: notifications fall back
		// to the local sink and kitchen tickets are skipped.
		log.Error("rabbitmq_unavailable", requestID, "Running without message broker", err, nil)
	} else {
		defer conn.Close()
		log.Info("rabbitmq_connected", requestID, "Connected to RabbitMQ", nil)
		publisher := messaging.NewPublisher(conn, log)
		dispatcher.RegisterAll(notify.NewAMQPSink(publisher))
		tickets = publisher
	}

	store := order.NewPostgresStore(db)
	service := order.NewService(store, provider, dispatcher, tickets, log, reg)

	mux := http.NewServeMux()
	order.NewHandler(service, log).Register(mux)
	settings.NewHandler(provider, log).Register(mux)
	mux.Handle("GET /metrics", reg.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, healthCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer healthCancel()

		status := http.StatusOK
		body := `{"status":"ok"}`
		if err := db.Ping(healthCtx); err != nil {
			status = http.StatusServiceUnavailable
			body = `{"status":"unhealthy"}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintln(w, body)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Info("http_listening", requestID, fmt.Sprintf("Order service listening on port %d", port), map[string]any{"port": port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", requestID, "HTTP server failed", err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runKitchenDisplay consumes kitchen tickets from the topic exchange.
func runKitchenDisplay(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.KitchenQueue, "kitchen-display", prefetch)
	return kitchen.NewDisplay(consumer, log).Start(ctx)
}

// runNotificationSubscriber consumes announcement envelopes from the fanout.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	return notify.NewSubscriber(consumer, log).Start(ctx)
}

// runReporter builds one report and dispatches it, then exits. Scheduling is
// left to cron or a systemd timer.
func runReporter(ctx context.Context, cfg *config.Config, log *logger.Logger, period string) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	provider := settings.NewProvider(settings.NewPostgresStore(db), log)
	if _, err := provider.Get(ctx); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	dispatcher := notify.NewDispatcher(provider, log, nil)
	dispatcher.RegisterAll(notify.NewLogSink(log))

	conn, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("rabbitmq_unavailable", "", "Dispatching report to local sink only", err, nil)
	} else {
		defer conn.Close()
		dispatcher.RegisterAll(notify.NewAMQPSink(messaging.NewPublisher(conn, log)))
	}

	return report.NewBuilder(db, log).Run(ctx, period, dispatcher)
}

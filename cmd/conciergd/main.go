package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry-concierge/config"
	"laundry-concierge/internal/api"
	"laundry-concierge/internal/audit"
	"laundry-concierge/internal/db"
	"laundry-concierge/internal/dispatch"
	"laundry-concierge/internal/nlu"
	"laundry-concierge/internal/paging"
	"laundry-concierge/internal/reschedule"
	"laundry-concierge/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "laundry-concierge ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
		logger.Fatalf("Twilio credentials must be configured for agent paging.")
	}

	loc, err := time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		logger.Fatalf("invalid business timezone %q: %v", cfg.Business.Timezone, err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Audit publisher is optional; without brokers events are dropped.
	var publisher audit.Publisher = audit.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Fatalf("failed to initialize audit publisher: %v", err)
		}
		logger.Printf("audit publisher connected to %v", cfg.Kafka.Brokers)
	}
	defer publisher.Close()

	classifier := nlu.NewHTTPClassifier(cfg.NLU)
	pager := paging.NewTwilioPager(cfg.Twilio)
	engine := reschedule.NewEngine(appStore, publisher, loc)
	dispatcher := dispatch.NewDispatcher(appStore, engine, pager, publisher, cfg.Business)

	// Initialize router
	handler := api.NewHandler(appStore, classifier, dispatcher)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

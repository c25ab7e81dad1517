package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ticket-api/internal/config"
	"ticket-api/internal/database"
	"ticket-api/internal/kafka"
	"ticket-api/internal/logger"
	"ticket-api/internal/server"
	"ticket-api/internal/tickets/cache"
	ticket_db "ticket-api/internal/tickets/db"
	tickets "ticket-api/internal/tickets/service"
	"ticket-api/internal/tickets/ticket_api"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(logger.Options{}).Fatal("CONFIG", fmt.Sprintf("Invalid configuration: %v", err))
	}

	log := logger.NewLogger(logger.Options{Service: "ticket-api", Dir: cfg.Log.Dir})
	defer log.Close()

	log.Info("APP", "Starting Ticket API initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, bunDB, cfg.Database, log); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
		}
	}

	ticketService := tickets.NewTicketService(&ticket_db.DB{Bun: bunDB}, log)

	if cfg.Redis.Enabled() {
		redisClient, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("REDIS", fmt.Sprintf("Ticket cache disabled: %v", err))
		} else {
			defer redisClient.Close()
			ticketService.Cache = cache.NewRedisTicketCache(redisClient, cfg.Redis.CacheTTL)
			log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, cfg.Redis.DB))
		}
	}

	if cfg.Kafka.Enabled() {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.TicketTopic}, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TicketTopic)
		defer producer.Close()
		ticketService.Events = producer
		log.Info("KAFKA", "Kafka producer initialized successfully")
	}

	handler := ticket_api.NewHandler(ticketService, log)
	srv := server.NewHTTPServer(cfg.Server, server.NewRouter(cfg, handler, ticketService, log))

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Ticket API running on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
	case <-ctx.Done():
	}

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Ticket API shutdown complete")
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medisched/backend/internal/adapters/database"
	"github.com/medisched/backend/internal/adapters/messaging"
	"github.com/medisched/backend/internal/application/services"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	"github.com/medisched/backend/internal/infrastructure/clients/rabbitmq"
	"github.com/medisched/backend/internal/infrastructure/observability"
	"github.com/medisched/backend/pkg/config"
)

// Standalone outbox dispatcher. Run this instead of the in-process loop
// when the API is scaled horizontally and only one drainer is wanted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-dispatcher", cfg.Server.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName+"-dispatcher",
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	rabbitClient, err := rabbitmq.NewClient(&cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	publisher := messaging.NewRabbitMQPublisher(rabbitClient)
	defer publisher.Close()

	outboxAdapter := database.NewOutboxAdapter(pgClient)
	dispatcher := services.NewOutboxDispatcher(outboxAdapter, publisher, cfg.Outbox, metrics, *logger, nil)

	go dispatcher.Run(ctx)
	log.Println("Outbox dispatcher running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Dispatcher shutting down...")
	cancel()
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medisched/backend/internal/adapters/cache"
	"github.com/medisched/backend/internal/adapters/database"
	"github.com/medisched/backend/internal/adapters/messaging"
	"github.com/medisched/backend/internal/api/handlers"
	"github.com/medisched/backend/internal/api/middleware"
	"github.com/medisched/backend/internal/api/routes"
	"github.com/medisched/backend/internal/application/services"
	"github.com/medisched/backend/internal/domain/providers"
	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	"github.com/medisched/backend/internal/infrastructure/clients/rabbitmq"
	"github.com/medisched/backend/internal/infrastructure/clients/redis"
	"github.com/medisched/backend/internal/infrastructure/observability"
	"github.com/medisched/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
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
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize adapters
	transactor := database.NewTransactor(pgClient)

	baseProviderAdapter := database.NewProviderAdapter(pgClient)
	var providerAdapter repositories.ProviderRepository
	if cacheProvider != nil {
		providerAdapter = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider)
		log.Println("Provider adapter wrapped with caching layer")
	} else {
		providerAdapter = baseProviderAdapter
		log.Println("Provider adapter running without cache (Redis unavailable)")
	}

	reservationAdapter := database.NewReservationAdapter(pgClient)
	overrideAdapter := database.NewOverrideAdapter(pgClient)
	outboxAdapter := database.NewOutboxAdapter(pgClient)

	// Initialize services
	availabilityService := services.NewAvailabilityService(providerAdapter, overrideAdapter, reservationAdapter, nil)
	slotService := services.NewSlotService(providerAdapter, reservationAdapter)
	calendarService := services.NewCalendarService(providerAdapter, reservationAdapter, availabilityService, nil)
	bookingService := services.NewBookingService(
		transactor,
		reservationAdapter,
		providerAdapter,
		outboxAdapter,
		availabilityService,
		rabbitmq.RoutingKeyFor(cfg.RabbitMQ.BookingQueue),
		nil,
	)
	scheduleService := services.NewScheduleService(
		transactor,
		providerAdapter,
		overrideAdapter,
		reservationAdapter,
		outboxAdapter,
		rabbitmq.RoutingKeyFor(cfg.RabbitMQ.CancellationQueue),
		nil,
	)
	maintenanceService := services.NewMaintenanceService(reservationAdapter, *logger, nil)

	// Startup sweep: reconcile stale CONFIRMED reservations before serving
	if swept, err := maintenanceService.SweepPastReservations(ctx); err != nil {
		log.Printf("Warning: past reservation sweep failed: %v", err)
	} else if swept > 0 {
		log.Printf("Past reservation sweep cancelled %d stale reservations", swept)
	}

	// Initialize RabbitMQ and run the outbox dispatcher in-process. Without
	// the broker the API still serves; entries pile up as PENDING until a
	// dispatcher drains them.
	rabbitClient, err := rabbitmq.NewClient(&cfg.RabbitMQ)
	if err != nil {
		log.Printf("Warning: Failed to initialize RabbitMQ client: %v", err)
	} else {
		publisher := messaging.NewRabbitMQPublisher(rabbitClient)
		defer publisher.Close()

		dispatcher := services.NewOutboxDispatcher(outboxAdapter, publisher, cfg.Outbox, metrics, *logger, nil)
		go dispatcher.Run(ctx)
		log.Println("Outbox dispatcher started")
	}

	// Initialize handlers
	providerHandler := handlers.NewProviderHandler(providerAdapter, scheduleService)
	availabilityHandler := handlers.NewAvailabilityHandler(slotService, availabilityService, calendarService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		providerHandler,
		availabilityHandler,
		bookingHandler,
		scheduleHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Stop the dispatcher loop before closing its publisher
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}

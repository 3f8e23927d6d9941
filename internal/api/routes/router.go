package routes

import (
	"net/http"

	"github.com/medisched/backend/internal/api/handlers"
	"github.com/medisched/backend/internal/api/middleware"
	"github.com/medisched/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler     *handlers.ProviderHandler
	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
	scheduleHandler     *handlers.ScheduleHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	scheduleHandler *handlers.ScheduleHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		providerHandler:     providerHandler,
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		scheduleHandler:     scheduleHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Provider directory endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/available", r.availabilityHandler.SearchAvailable)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)
	r.mux.HandleFunc("GET /api/providers/{id}/blocks", r.providerHandler.GetUpcomingBlocks)

	// Availability endpoints
	r.mux.HandleFunc("GET /api/providers/{id}/slots", r.availabilityHandler.GetSlots)
	r.mux.HandleFunc("GET /api/providers/{id}/available-slots", r.availabilityHandler.GetAvailableSlots)
	r.mux.HandleFunc("GET /api/providers/{id}/calendar", r.availabilityHandler.GetCalendar)
	r.mux.HandleFunc("GET /api/providers/{id}/next-available", r.availabilityHandler.GetNextAvailable)

	// Booking endpoints
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.CreateBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/cancel", r.bookingHandler.CancelBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/complete", r.bookingHandler.CompleteBooking)
	r.mux.HandleFunc("GET /api/requesters/{id}/bookings", r.bookingHandler.ListRequesterBookings)
	r.mux.HandleFunc("GET /api/providers/{id}/bookings", r.bookingHandler.ListProviderBookings)

	// Schedule endpoints
	r.mux.HandleFunc("POST /api/providers/{id}/block", r.scheduleHandler.BlockDate)
	r.mux.HandleFunc("POST /api/providers/{id}/unblock", r.scheduleHandler.UnblockDate)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

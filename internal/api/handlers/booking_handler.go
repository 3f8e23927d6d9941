package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
)

// BookingOperations defines the reservation lifecycle used by the handler.
type BookingOperations interface {
	Book(ctx context.Context, providerID, requesterID string, slotID int, date time.Time) (*entities.Reservation, error)
	Cancel(ctx context.Context, reservationID, actorID string) error
	Complete(ctx context.Context, reservationID string) error
	ListForRequester(ctx context.Context, requesterID string) ([]*entities.Reservation, error)
	ListForProvider(ctx context.Context, providerID string) ([]*entities.Reservation, error)
}

// BookingHandler serves reservation creation and transitions.
type BookingHandler struct {
	bookings BookingOperations
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingOperations) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type bookingRequest struct {
	ProviderID  string `json:"provider_id"`
	RequesterID string `json:"requester_id"`
	SlotID      int    `json:"slot_id"`
	Date        string `json:"date"`
}

type cancelRequest struct {
	ActorID string `json:"actor_id"`
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var payload bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.ProviderID = strings.TrimSpace(payload.ProviderID)
	payload.RequesterID = strings.TrimSpace(payload.RequesterID)
	if payload.ProviderID == "" || payload.RequesterID == "" {
		respondWithError(w, http.StatusBadRequest, "provider_id and requester_id are required")
		return
	}
	if payload.SlotID < 1 {
		respondWithError(w, http.StatusBadRequest, "slot_id must be a positive integer")
		return
	}

	date, err := time.Parse(entities.DateLayout, payload.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	reservation, err := h.bookings.Book(r.Context(), payload.ProviderID, payload.RequesterID, payload.SlotID, date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, reservation)
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	var payload cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.ActorID) == "" {
		respondWithError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	if err := h.bookings.Cancel(r.Context(), id, payload.ActorID); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// CompleteBooking handles POST /api/bookings/{id}/complete
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	if err := h.bookings.Complete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// ListRequesterBookings handles GET /api/requesters/{id}/bookings
func (h *BookingHandler) ListRequesterBookings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "requester ID is required")
		return
	}

	reservations, err := h.bookings.ListForRequester(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if reservations == nil {
		reservations = []*entities.Reservation{}
	}
	respondWithJSON(w, http.StatusOK, reservations)
}

// ListProviderBookings handles GET /api/providers/{id}/bookings
func (h *BookingHandler) ListProviderBookings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	reservations, err := h.bookings.ListForProvider(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if reservations == nil {
		reservations = []*entities.Reservation{}
	}
	respondWithJSON(w, http.StatusOK, reservations)
}

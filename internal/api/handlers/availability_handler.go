package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
)

const defaultSearchLimit = 10

// SlotReader exposes slot template expansion.
type SlotReader interface {
	SlotsFor(ctx context.Context, providerID string) ([]entities.Slot, error)
	AvailableSlotsFor(ctx context.Context, providerID string, date time.Time) ([]entities.Slot, error)
}

// AvailabilitySearcher exposes the next-available lookups.
type AvailabilitySearcher interface {
	NextAvailable(ctx context.Context, providerID string) (*entities.ProviderSummary, error)
	SearchAvailableProviders(ctx context.Context, speciality string, limit int) ([]*entities.ProviderSummary, error)
}

// CalendarReader exposes the month view.
type CalendarReader interface {
	MonthView(ctx context.Context, providerID string, year, month int) ([]entities.DayStatus, error)
}

// AvailabilityHandler serves slot, calendar and next-available reads.
type AvailabilityHandler struct {
	slots    SlotReader
	search   AvailabilitySearcher
	calendar CalendarReader
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(slots SlotReader, search AvailabilitySearcher, calendar CalendarReader) *AvailabilityHandler {
	return &AvailabilityHandler{
		slots:    slots,
		search:   search,
		calendar: calendar,
	}
}

// GetSlots handles GET /api/providers/{id}/slots
func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	slots, err := h.slots.SlotsFor(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if slots == nil {
		slots = []entities.Slot{}
	}
	respondWithJSON(w, http.StatusOK, slots)
}

// GetAvailableSlots handles GET /api/providers/{id}/available-slots?date=YYYY-MM-DD
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	date, err := time.Parse(entities.DateLayout, r.URL.Query().Get("date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	slots, err := h.slots.AvailableSlotsFor(r.Context(), id, date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if slots == nil {
		slots = []entities.Slot{}
	}
	respondWithJSON(w, http.StatusOK, slots)
}

// GetCalendar handles GET /api/providers/{id}/calendar?year=2026&month=9
func (h *AvailabilityHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "month must be an integer")
		return
	}

	days, err := h.calendar.MonthView(r.Context(), id, year, month)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, days)
}

// GetNextAvailable handles GET /api/providers/{id}/next-available
func (h *AvailabilityHandler) GetNextAvailable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	summary, err := h.search.NextAvailable(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// SearchAvailable handles GET /api/providers/available?speciality=&limit=
func (h *AvailabilityHandler) SearchAvailable(w http.ResponseWriter, r *http.Request) {
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := h.search.SearchAvailableProviders(r.Context(), r.URL.Query().Get("speciality"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if results == nil {
		results = []*entities.ProviderSummary{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

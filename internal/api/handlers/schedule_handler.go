package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
)

// ScheduleOperations defines the date blocking operations used by the handler.
type ScheduleOperations interface {
	BlockDate(ctx context.Context, providerID string, date time.Time) (int, error)
	UnblockDate(ctx context.Context, providerID string, date time.Time) error
}

// ScheduleHandler serves date block and unblock requests.
type ScheduleHandler struct {
	schedule ScheduleOperations
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(schedule ScheduleOperations) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

type blockRequest struct {
	Date string `json:"date"`
}

// BlockDate handles POST /api/providers/{id}/block
func (h *ScheduleHandler) BlockDate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	var payload blockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	date, err := time.Parse(entities.DateLayout, payload.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	cancelled, err := h.schedule.BlockDate(r.Context(), id, date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":                   date.Format(entities.DateLayout),
		"blocked":                true,
		"cancelled_reservations": cancelled,
	})
}

// UnblockDate handles POST /api/providers/{id}/unblock
func (h *ScheduleHandler) UnblockDate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	var payload blockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	date, err := time.Parse(entities.DateLayout, payload.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	if err := h.schedule.UnblockDate(r.Context(), id, date); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format(entities.DateLayout),
		"blocked": false,
	})
}

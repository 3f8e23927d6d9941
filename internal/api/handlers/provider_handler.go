package handlers

import (
	"context"
	"net/http"

	"github.com/medisched/backend/internal/domain/entities"
)

// ProviderDirectory defines the provider read operations used by the handler.
type ProviderDirectory interface {
	GetByID(ctx context.Context, id string) (*entities.Provider, error)
	List(ctx context.Context, speciality string) ([]*entities.Provider, error)
}

// ScheduleReader exposes the upcoming-blocks listing.
type ScheduleReader interface {
	UpcomingBlocks(ctx context.Context, providerID string) ([]*entities.AvailabilityOverride, error)
}

// ProviderHandler serves the provider directory reads.
type ProviderHandler struct {
	directory ProviderDirectory
	schedule  ScheduleReader
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(directory ProviderDirectory, schedule ScheduleReader) *ProviderHandler {
	return &ProviderHandler{
		directory: directory,
		schedule:  schedule,
	}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.directory.List(r.Context(), r.URL.Query().Get("speciality"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if providers == nil {
		providers = []*entities.Provider{}
	}
	respondWithJSON(w, http.StatusOK, providers)
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, provider)
}

// GetUpcomingBlocks handles GET /api/providers/{id}/blocks
func (h *ProviderHandler) GetUpcomingBlocks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	blocks, err := h.schedule.UpcomingBlocks(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if blocks == nil {
		blocks = []*entities.AvailabilityOverride{}
	}
	respondWithJSON(w, http.StatusOK, blocks)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/riii-services/backend/internal/domain/entities"
)

// LocationService defines the location operations used by the handler.
type LocationService interface {
	Create(ctx context.Context, location *entities.Location) (*entities.Location, error)
	List(ctx context.Context) ([]*entities.Location, error)
	Update(ctx context.Context, id string, patch *entities.LocationPatch) (*entities.Location, error)
	Delete(ctx context.Context, id string) error
}

// LocationHandler handles /api/locations
type LocationHandler struct {
	service LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// ListLocations handles GET /api/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, locations)
}

// CreateLocation handles POST /api/locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var location entities.Location
	if _, ok := decodeBody(w, r, &location); !ok {
		return
	}

	created, err := h.service.Create(r.Context(), &location)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateLocation handles PATCH /api/locations
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var patch entities.LocationPatch
	data, ok := decodeBody(w, r, &patch)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	location, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, location)
}

// DeleteLocation handles DELETE /api/locations
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	var env idEnvelope
	data, ok := decodeBody(w, r, &env)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondDeleted(w)
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/riii-services/backend/internal/domain/entities"
)

// CatalogService defines the service and category operations used by the handler.
type CatalogService interface {
	CreateService(ctx context.Context, draft *entities.ServiceDraft) (*entities.Service, error)
	ListServices(ctx context.Context, category string) ([]*entities.Service, error)
	UpdateService(ctx context.Context, id string, patch *entities.ServicePatch) (*entities.Service, error)
	DeleteService(ctx context.Context, id string) error
	SearchServices(ctx context.Context, query string, limit int) ([]*entities.Service, error)

	CreateCategory(ctx context.Context, category *entities.Category) (*entities.Category, error)
	ListCategories(ctx context.Context, slug string) ([]*entities.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch *entities.CategoryPatch) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id int64) (*entities.CategoryDeleteResult, error)
}

// CatalogHandler handles /api/services and /api/categories
type CatalogHandler struct {
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListServices handles GET /api/services?category=
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, services)
}

// SearchServices handles GET /api/services/search?q=&limit=
func (h *CatalogHandler) SearchServices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	services, err := h.service.SearchServices(r.Context(), query.Get("q"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, services)
}

// CreateService handles POST /api/services
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var draft entities.ServiceDraft
	if _, ok := decodeBody(w, r, &draft); !ok {
		return
	}

	service, err := h.service.CreateService(r.Context(), &draft)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, service)
}

// UpdateService handles PATCH /api/services with the id in the body
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var patch entities.ServicePatch
	data, ok := decodeBody(w, r, &patch)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	service, err := h.service.UpdateService(r.Context(), id, &patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, service)
}

// DeleteService handles DELETE /api/services with the id in the body
func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	var env idEnvelope
	data, ok := decodeBody(w, r, &env)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	if err := h.service.DeleteService(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondDeleted(w)
}

// ListCategories handles GET /api/categories?slug=
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), r.URL.Query().Get("slug"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category entities.Category
	if _, ok := decodeBody(w, r, &category); !ok {
		return
	}

	created, err := h.service.CreateCategory(r.Context(), &category)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateCategory handles PATCH /api/categories. A slug change relinks services.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch entities.CategoryPatch
	data, ok := decodeBody(w, r, &patch)
	if !ok {
		return
	}
	id, ok := categoryID(w, data)
	if !ok {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, &patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories and cascades to its services
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var env idEnvelope
	data, ok := decodeBody(w, r, &env)
	if !ok {
		return
	}
	id, ok := categoryID(w, data)
	if !ok {
		return
	}

	result, err := h.service.DeleteCategory(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func categoryID(w http.ResponseWriter, data []byte) (int64, bool) {
	raw, ok := requireID(w, data)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

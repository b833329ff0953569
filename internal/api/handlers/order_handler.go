package handlers

import (
	"context"
	"net/http"

	"github.com/riii-services/backend/internal/domain/entities"
)

// OrderService defines the order operations used by the handler.
type OrderService interface {
	Create(ctx context.Context, draft *entities.OrderDraft) (*entities.Order, error)
	List(ctx context.Context) ([]*entities.Order, error)
	Update(ctx context.Context, id string, patch *entities.OrderPatch) (*entities.OrderUpdateResult, error)
	Delete(ctx context.Context, id string) error
}

// OrderHandler handles /api/orders
type OrderHandler struct {
	service OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder handles POST /api/orders (public booking)
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var draft entities.OrderDraft
	if _, ok := decodeBody(w, r, &draft); !ok {
		return
	}

	order, err := h.service.Create(r.Context(), &draft)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

// UpdateOrder handles PATCH /api/orders. The response carries the email
// outcome when the patch changed status.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var patch entities.OrderPatch
	data, ok := decodeBody(w, r, &patch)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	result, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if patch.Status == nil {
		respondWithJSON(w, http.StatusOK, result.Order)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// DeleteOrder handles DELETE /api/orders
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
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

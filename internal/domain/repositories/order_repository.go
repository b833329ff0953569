package repositories

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create inserts an order and fills the store-assigned ID and CreatedAt
	Create(ctx context.Context, order *entities.Order) error

	// List retrieves orders, newest first
	List(ctx context.Context) ([]*entities.Order, error)

	// Update applies changes to an order and returns the stored record
	Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Order, error)

	// Delete deletes an order by ID
	Delete(ctx context.Context, id string) error
}

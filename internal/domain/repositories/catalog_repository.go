package repositories

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
)

// ServiceFilter narrows a service listing
type ServiceFilter struct {
	Category string
}

// ServiceRepository defines the interface for service data operations
type ServiceRepository interface {
	// Create inserts a service and refreshes it with the stored values
	Create(ctx context.Context, service *entities.Service) error

	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id string) (*entities.Service, error)

	// List retrieves services ordered by id
	List(ctx context.Context, filter ServiceFilter) ([]*entities.Service, error)

	// Update applies changes to a service and returns the stored record
	Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Service, error)

	// Delete deletes a service by ID
	Delete(ctx context.Context, id string) error

	// RelinkCategory moves every service from oldSlug to newSlug
	RelinkCategory(ctx context.Context, oldSlug, newSlug string) (int64, error)

	// DeleteByCategory deletes every service belonging to slug
	DeleteByCategory(ctx context.Context, slug string) (int64, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	// Create inserts a category; the store assigns the ID
	Create(ctx context.Context, category *entities.Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id int64) (*entities.Category, error)

	// List retrieves categories ordered by id, optionally filtered by slug
	List(ctx context.Context, slug string) ([]*entities.Category, error)

	// Update applies changes to a category and returns the stored record
	Update(ctx context.Context, id int64, changes map[string]interface{}) (*entities.Category, error)

	// Delete deletes a category by ID
	Delete(ctx context.Context, id int64) error
}

// LocationRepository defines the interface for location data operations
type LocationRepository interface {
	Create(ctx context.Context, location *entities.Location) error
	List(ctx context.Context) ([]*entities.Location, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Location, error)
	Delete(ctx context.Context, id string) error
}

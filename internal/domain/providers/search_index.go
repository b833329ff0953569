package providers

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
)

// ServiceSearchIndex is a full-text index of the service catalog
type ServiceSearchIndex interface {
	// Index inserts or replaces the service document
	Index(ctx context.Context, service *entities.Service) error

	// Remove deletes the service document
	Remove(ctx context.Context, id string) error

	// Search returns services matching query, best match first
	Search(ctx context.Context, query string, limit int) ([]*entities.Service, error)
}

package repositories

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	List(ctx context.Context) ([]*entities.Review, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Review, error)
	Delete(ctx context.Context, id string) error
}

// BlogFilter narrows a blog listing
type BlogFilter struct {
	Published *bool
	Slug      string
}

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	Create(ctx context.Context, blog *entities.Blog) error
	List(ctx context.Context, filter BlogFilter) ([]*entities.Blog, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Blog, error)
	Delete(ctx context.Context, id string) error
}

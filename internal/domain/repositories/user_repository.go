package repositories

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create inserts a user and fills the store-assigned fields
	Create(ctx context.Context, user *entities.User) error

	// GetByEmail retrieves a user by exact email match
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update writes name, phone, message and updated_at of an existing user
	Update(ctx context.Context, user *entities.User) error

	// List retrieves users, newest first
	List(ctx context.Context) ([]*entities.User, error)
}

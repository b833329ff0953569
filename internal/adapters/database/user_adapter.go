package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
)

const usersTable = "users"

var userColumns = []interface{}{
	"id", "name", "email", "phone", "message", "source", "created_at", "updated_at",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	store
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{store{client: client}}
}

// Create inserts a user; the database assigns id and timestamps
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
		"message": user.Message,
		"source":  user.Source,
	}

	ds := dialect.Insert(usersTable).Rows(record).Returning(userColumns...)
	if err := a.get(ctx, user, ds); err != nil {
		return storeError("failed to create user", err)
	}
	return nil
}

// GetByEmail retrieves a user by exact email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	user := &entities.User{}
	ds := dialect.From(usersTable).Select(userColumns...).Where(goqu.Ex{"email": email}).Limit(1)
	if err := a.get(ctx, user, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("user with email %s not found", email), "failed to get user")
	}
	return user, nil
}

// Update writes the mutable contact fields of user
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now().UTC()
	}

	ds := dialect.Update(usersTable).
		Set(goqu.Record{
			"name":       user.Name,
			"phone":      user.Phone,
			"message":    user.Message,
			"updated_at": user.UpdatedAt,
		}).
		Where(goqu.Ex{"id": user.ID}).
		Returning(userColumns...)
	if err := a.get(ctx, user, ds); err != nil {
		return notFoundOr(err, fmt.Sprintf("user with id %s not found", user.ID), "failed to update user")
	}
	return nil
}

// List retrieves users, newest first
func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	ds := dialect.From(usersTable).Select(userColumns...).Order(goqu.I("created_at").Desc())

	users := []*entities.User{}
	if err := a.selectAll(ctx, &users, ds); err != nil {
		return nil, storeError("failed to list users", err)
	}
	return users, nil
}

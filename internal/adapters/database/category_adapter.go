package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

const categoriesTable = "categories"

var categoryColumns = []interface{}{"id", "name", "slug", "image", "description", "icon"}

// CategoryAdapter implements the CategoryRepository interface
type CategoryAdapter struct {
	store
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{store{client: client}}
}

// Create inserts a category; the database assigns the ID
func (a *CategoryAdapter) Create(ctx context.Context, category *entities.Category) error {
	record := goqu.Record{
		"name":        category.Name,
		"slug":        category.Slug,
		"image":       category.Image,
		"description": category.Description,
		"icon":        category.Icon,
	}

	ds := dialect.Insert(categoriesTable).Rows(record).Returning(categoryColumns...)
	if err := a.get(ctx, category, ds); err != nil {
		return storeError("failed to create category", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (a *CategoryAdapter) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	category := &entities.Category{}
	ds := dialect.From(categoriesTable).Select(categoryColumns...).Where(goqu.Ex{"id": id})
	if err := a.get(ctx, category, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("category with id %d not found", id), "failed to get category")
	}
	return category, nil
}

// List retrieves categories ordered by id
func (a *CategoryAdapter) List(ctx context.Context, slug string) ([]*entities.Category, error) {
	ds := dialect.From(categoriesTable).Select(categoryColumns...)
	if slug != "" {
		ds = ds.Where(goqu.Ex{"slug": slug})
	}
	ds = ds.Order(goqu.I("id").Asc())

	categories := []*entities.Category{}
	if err := a.selectAll(ctx, &categories, ds); err != nil {
		return nil, storeError("failed to list categories", err)
	}
	return categories, nil
}

// Update applies changes to a category
func (a *CategoryAdapter) Update(ctx context.Context, id int64, changes map[string]interface{}) (*entities.Category, error) {
	category := &entities.Category{}
	ds := dialect.Update(categoriesTable).
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Returning(categoryColumns...)
	if err := a.get(ctx, category, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("category with id %d not found", id), "failed to update category")
	}
	return category, nil
}

// Delete deletes a category by ID
func (a *CategoryAdapter) Delete(ctx context.Context, id int64) error {
	rows, err := a.exec(ctx, dialect.Delete(categoriesTable).Where(goqu.Ex{"id": id}))
	if err != nil {
		return storeError("failed to delete category", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	return nil
}

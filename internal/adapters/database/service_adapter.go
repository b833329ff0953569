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

const servicesTable = "services"

var serviceColumns = []interface{}{
	"id", "name", "category", "price", "discount", "description", "image", "duration", "rating",
}

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	store
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{store{client: client}}
}

// Create inserts a service
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	record := goqu.Record{
		"id":          service.ID,
		"name":        service.Name,
		"category":    service.Category,
		"price":       service.Price,
		"discount":    service.Discount,
		"description": service.Description,
		"image":       service.Image,
		"duration":    service.Duration,
		"rating":      service.Rating,
	}

	ds := dialect.Insert(servicesTable).Rows(record).Returning(serviceColumns...)
	if err := a.get(ctx, service, ds); err != nil {
		return storeError("failed to create service", err)
	}
	return nil
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	service := &entities.Service{}
	ds := dialect.From(servicesTable).Select(serviceColumns...).Where(goqu.Ex{"id": id})
	if err := a.get(ctx, service, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("service with id %s not found", id), "failed to get service")
	}
	return service, nil
}

// List retrieves services ordered by id
func (a *ServiceAdapter) List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	ds := dialect.From(servicesTable).Select(serviceColumns...)
	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}
	ds = ds.Order(goqu.I("id").Asc())

	services := []*entities.Service{}
	if err := a.selectAll(ctx, &services, ds); err != nil {
		return nil, storeError("failed to list services", err)
	}
	return services, nil
}

// Update applies changes to a service
func (a *ServiceAdapter) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Service, error) {
	service := &entities.Service{}
	ds := dialect.Update(servicesTable).
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Returning(serviceColumns...)
	if err := a.get(ctx, service, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("service with id %s not found", id), "failed to update service")
	}
	return service, nil
}

// Delete deletes a service by ID
func (a *ServiceAdapter) Delete(ctx context.Context, id string) error {
	rows, err := a.exec(ctx, dialect.Delete(servicesTable).Where(goqu.Ex{"id": id}))
	if err != nil {
		return storeError("failed to delete service", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	return nil
}

// RelinkCategory moves every service from oldSlug to newSlug
func (a *ServiceAdapter) RelinkCategory(ctx context.Context, oldSlug, newSlug string) (int64, error) {
	ds := dialect.Update(servicesTable).
		Set(goqu.Record{"category": newSlug}).
		Where(goqu.Ex{"category": oldSlug})
	rows, err := a.exec(ctx, ds)
	if err != nil {
		return 0, storeError("failed to relink services", err)
	}
	return rows, nil
}

// DeleteByCategory deletes every service belonging to slug
func (a *ServiceAdapter) DeleteByCategory(ctx context.Context, slug string) (int64, error) {
	rows, err := a.exec(ctx, dialect.Delete(servicesTable).Where(goqu.Ex{"category": slug}))
	if err != nil {
		return 0, storeError("failed to delete category services", err)
	}
	return rows, nil
}

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

const locationsTable = "locations"

var locationColumns = []interface{}{"id", "name", "city", "area", "image"}

// LocationAdapter implements the LocationRepository interface
type LocationAdapter struct {
	store
}

// NewLocationAdapter creates a new location adapter
func NewLocationAdapter(client *postgres.Client) repositories.LocationRepository {
	return &LocationAdapter{store{client: client}}
}

// Create inserts a location with its caller-supplied ID
func (a *LocationAdapter) Create(ctx context.Context, location *entities.Location) error {
	record := goqu.Record{
		"id":    location.ID,
		"name":  location.Name,
		"city":  location.City,
		"area":  location.Area,
		"image": location.Image,
	}

	ds := dialect.Insert(locationsTable).Rows(record).Returning(locationColumns...)
	if err := a.get(ctx, location, ds); err != nil {
		return storeError("failed to create location", err)
	}
	return nil
}

// List retrieves locations ordered by id
func (a *LocationAdapter) List(ctx context.Context) ([]*entities.Location, error) {
	ds := dialect.From(locationsTable).Select(locationColumns...).Order(goqu.I("id").Asc())

	locations := []*entities.Location{}
	if err := a.selectAll(ctx, &locations, ds); err != nil {
		return nil, storeError("failed to list locations", err)
	}
	return locations, nil
}

// Update applies changes to a location
func (a *LocationAdapter) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Location, error) {
	location := &entities.Location{}
	ds := dialect.Update(locationsTable).
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Returning(locationColumns...)
	if err := a.get(ctx, location, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("location with id %s not found", id), "failed to update location")
	}
	return location, nil
}

// Delete deletes a location by ID
func (a *LocationAdapter) Delete(ctx context.Context, id string) error {
	rows, err := a.exec(ctx, dialect.Delete(locationsTable).Where(goqu.Ex{"id": id}))
	if err != nil {
		return storeError("failed to delete location", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("location with id %s not found", id))
	}
	return nil
}

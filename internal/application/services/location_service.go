package services

import (
	"context"
	"strings"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

// LocationService manages service areas
type LocationService struct {
	repo repositories.LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(repo repositories.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

// Create inserts a location; every field including id is required
func (s *LocationService) Create(ctx context.Context, location *entities.Location) (*entities.Location, error) {
	location.ID = strings.TrimSpace(location.ID)
	location.Name = strings.TrimSpace(location.Name)
	location.City = strings.TrimSpace(location.City)
	location.Area = strings.TrimSpace(location.Area)
	location.Image = strings.TrimSpace(location.Image)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"id", location.ID},
		{"name", location.Name},
		{"city", location.City},
		{"area", location.Area},
		{"image", location.Image},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFieldsError(missing)
	}

	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// List returns every location
func (s *LocationService) List(ctx context.Context) ([]*entities.Location, error) {
	return s.repo.List(ctx)
}

// Update applies a patch to a location
func (s *LocationService) Update(ctx context.Context, id string, patch *entities.LocationPatch) (*entities.Location, error) {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	return s.repo.Update(ctx, id, changes)
}

// Delete removes a location
func (s *LocationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

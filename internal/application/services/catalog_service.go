package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/observability"
	apperrors "github.com/riii-services/backend/pkg/errors"
	"github.com/riii-services/backend/pkg/utils"
)

const defaultSearchLimit = 20

// CatalogService manages services and categories and keeps the soft link
// Service.category -> Category.slug consistent across renames and deletes.
type CatalogService struct {
	services   repositories.ServiceRepository
	categories repositories.CategoryRepository
	tx         repositories.Transactor
	index      providers.ServiceSearchIndex
}

// NewCatalogService creates a new catalog service. index may be nil.
func NewCatalogService(
	services repositories.ServiceRepository,
	categories repositories.CategoryRepository,
	tx repositories.Transactor,
	index providers.ServiceSearchIndex,
) *CatalogService {
	return &CatalogService{
		services:   services,
		categories: categories,
		tx:         tx,
		index:      index,
	}
}

// CreateService validates and inserts a service, generating an ID if absent
func (s *CatalogService) CreateService(ctx context.Context, draft *entities.ServiceDraft) (*entities.Service, error) {
	service := &entities.Service{
		ID:          strings.TrimSpace(draft.ID),
		Name:        strings.TrimSpace(draft.Name),
		Category:    strings.TrimSpace(draft.Category),
		Description: strings.TrimSpace(draft.Description),
		Image:       strings.TrimSpace(draft.Image),
		Duration:    strings.TrimSpace(draft.Duration),
	}
	if service.Name == "" || service.Category == "" || service.Image == "" || service.Duration == "" ||
		service.Description == "" || !finite(draft.Price) || !finite(draft.Rating) {
		return nil, apperrors.NewValidationError("Missing or invalid fields")
	}
	service.Price = *draft.Price
	service.Rating = *draft.Rating
	if draft.Discount != nil {
		service.Discount = *draft.Discount
	}
	if err := validateServiceNumbers(service.Price, service.Rating, service.Discount); err != nil {
		return nil, err
	}
	if service.ID == "" {
		service.ID = uuid.New().String()
	}

	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	s.indexServices(ctx, service)
	return service, nil
}

// ListServices returns services ordered by id, optionally within one category
func (s *CatalogService) ListServices(ctx context.Context, category string) ([]*entities.Service, error) {
	return s.services.List(ctx, repositories.ServiceFilter{Category: category})
}

// UpdateService applies an admin patch to a service
func (s *CatalogService) UpdateService(ctx context.Context, id string, patch *entities.ServicePatch) (*entities.Service, error) {
	if err := validateServicePatch(patch); err != nil {
		return nil, err
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	service, err := s.services.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	s.indexServices(ctx, service)
	return service, nil
}

// DeleteService removes a service
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}
	s.unindexServices(ctx, id)
	return nil
}

// SearchServices finds services by name, category or description. Without a
// search index it scans the catalog with a case-insensitive substring match.
func (s *CatalogService) SearchServices(ctx context.Context, query string, limit int) ([]*entities.Service, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query = strings.TrimSpace(query)

	if s.index != nil {
		results, err := s.index.Search(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Search index unavailable, scanning catalog")
	}

	all, err := s.services.List(ctx, repositories.ServiceFilter{})
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	matches := []*entities.Service{}
	for _, service := range all {
		if len(matches) == limit {
			break
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(service.Name), needle) ||
			strings.Contains(strings.ToLower(service.Category), needle) ||
			strings.Contains(strings.ToLower(service.Description), needle) {
			matches = append(matches, service)
		}
	}
	return matches, nil
}

// Reindex pushes every service to the search index and returns the count
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, apperrors.NewNotConfiguredError("Search index not configured")
	}
	all, err := s.services.List(ctx, repositories.ServiceFilter{})
	if err != nil {
		return 0, err
	}
	for _, service := range all {
		if err := s.index.Index(ctx, service); err != nil {
			return 0, apperrors.NewExternalError(fmt.Sprintf("failed to index service %s", service.ID), err)
		}
	}
	return len(all), nil
}

// CreateCategory inserts a category, deriving the slug from the name when absent
func (s *CatalogService) CreateCategory(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	category.Slug = strings.TrimSpace(category.Slug)
	if category.Name == "" {
		return nil, apperrors.NewMissingFieldsError([]string{"name"})
	}
	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	}
	if category.Slug == "" {
		return nil, apperrors.NewValidationError("slug must not be empty")
	}
	category.ID = 0

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns categories ordered by id, optionally matching slug
func (s *CatalogService) ListCategories(ctx context.Context, slug string) ([]*entities.Category, error) {
	return s.categories.List(ctx, slug)
}

// UpdateCategory applies a patch. When the slug changes, dependent services
// are relinked first and the category is only written if that succeeds.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, patch *entities.CategoryPatch) (*entities.Category, error) {
	if patch.Slug != nil {
		trimmed := strings.TrimSpace(*patch.Slug)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("slug must not be empty")
		}
		patch.Slug = &trimmed
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	var (
		updated *entities.Category
		oldSlug string
		newSlug string
		moved   int64
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.categories.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Slug != nil && *patch.Slug != current.Slug {
			if err := s.ensureSlugFree(ctx, id, *patch.Slug); err != nil {
				return err
			}
			oldSlug, newSlug = current.Slug, *patch.Slug
			moved, err = s.services.RelinkCategory(ctx, oldSlug, newSlug)
			if err != nil {
				return err
			}
		}

		updated, err = s.categories.Update(ctx, id, changes)
		return err
	})
	if err != nil {
		return nil, err
	}

	if newSlug != "" {
		observability.LoggerFromContext(ctx).Info().
			Int64("category_id", id).
			Str("old_slug", oldSlug).
			Str("new_slug", newSlug).
			Int64("services_relinked", moved).
			Msg("Category slug renamed")
		s.reindexCategory(ctx, newSlug)
	}
	return updated, nil
}

// ensureSlugFree rejects a rename onto a slug owned by another category.
// Services must not be relinked when the category write is bound to fail.
func (s *CatalogService) ensureSlugFree(ctx context.Context, id int64, slug string) error {
	owners, err := s.categories.List(ctx, slug)
	if err != nil {
		return err
	}
	for _, owner := range owners {
		if owner.ID != id {
			return apperrors.NewConflictError(fmt.Sprintf("category slug %q is already in use", slug))
		}
	}
	return nil
}

// DeleteCategory removes a category and every service linked to its slug.
// An unknown id deletes nothing and reports zero dependents.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) (*entities.CategoryDeleteResult, error) {
	var dependents []*entities.Service
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categories.GetByID(ctx, id)
		if apperrors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}

		dependents, err = s.services.List(ctx, repositories.ServiceFilter{Category: category.Slug})
		if err != nil {
			return err
		}
		if len(dependents) > 0 {
			if _, err := s.services.DeleteByCategory(ctx, category.Slug); err != nil {
				return err
			}
		}

		err = s.categories.Delete(ctx, id)
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(dependents))
	for _, service := range dependents {
		ids = append(ids, service.ID)
	}
	s.unindexServices(ctx, ids...)

	result := &entities.CategoryDeleteResult{Success: true, DeletedServices: len(dependents)}
	if len(dependents) > 0 {
		result.Message = fmt.Sprintf("Category deleted. %d associated service(s) were also deleted due to cascade.", len(dependents))
	} else {
		result.Message = "Category deleted successfully."
	}
	return result, nil
}

func (s *CatalogService) reindexCategory(ctx context.Context, slug string) {
	if s.index == nil {
		return
	}
	services, err := s.services.List(ctx, repositories.ServiceFilter{Category: slug})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("category", slug).Msg("Failed to reindex category services")
		return
	}
	s.indexServices(ctx, services...)
}

// indexServices and unindexServices are best-effort; failures are only logged
func (s *CatalogService) indexServices(ctx context.Context, services ...*entities.Service) {
	if s.index == nil {
		return
	}
	for _, service := range services {
		if err := s.index.Index(ctx, service); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("service_id", service.ID).Msg("Failed to index service")
		}
	}
}

func (s *CatalogService) unindexServices(ctx context.Context, ids ...string) {
	if s.index == nil {
		return
	}
	for _, id := range ids {
		if err := s.index.Remove(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("service_id", id).Msg("Failed to remove service from index")
		}
	}
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func validateServiceNumbers(price, rating, discount float64) error {
	var problems []string
	if price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if rating < 0 || rating > 5 {
		problems = append(problems, "rating must be between 0 and 5")
	}
	if discount < 0 || discount > 100 {
		problems = append(problems, "discount must be between 0 and 100")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError(strings.Join(problems, "; "))
	}
	return nil
}

func validateServicePatch(patch *entities.ServicePatch) error {
	price, rating, discount := 0.0, 0.0, 0.0
	if patch.Price != nil {
		price = *patch.Price
	}
	if patch.Rating != nil {
		rating = *patch.Rating
	}
	if patch.Discount != nil {
		discount = *patch.Discount
	}
	return validateServiceNumbers(price, rating, discount)
}

package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	tsclient "github.com/riii-services/backend/internal/infrastructure/clients/typesense"
)

const collectionName = "services"

// TypesenseAdapter implements service catalog search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.ServiceSearchIndex = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "description", Type: "string"},
			{Name: "image", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "duration", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "price", Type: "float"},
			{Name: "discount", Type: "float"},
			{Name: "rating", Type: "float"},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts the service document
func (a *TypesenseAdapter) Index(ctx context.Context, service *entities.Service) error {
	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, serviceDocument(service))
	if err != nil {
		return fmt.Errorf("failed to index service: %w", err)
	}
	return nil
}

// Remove deletes a service from the index
func (a *TypesenseAdapter) Remove(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete service from index: %w", err)
	}
	return nil
}

// Search runs a typo-tolerant query over name, category and description
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Service, error) {
	if query == "" {
		query = "*"
	}
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,category,description"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search services: %w", err)
	}

	services := []*entities.Service{}
	if result.Hits == nil {
		return services, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		services = append(services, serviceFromDocument(*hit.Document))
	}
	return services, nil
}

func serviceDocument(service *entities.Service) map[string]interface{} {
	return map[string]interface{}{
		"id":          service.ID,
		"name":        service.Name,
		"category":    service.Category,
		"description": service.Description,
		"image":       service.Image,
		"duration":    service.Duration,
		"price":       service.Price,
		"discount":    service.Discount,
		"rating":      service.Rating,
	}
}

// serviceFromDocument rebuilds a service from a hit; absent fields stay zero
func serviceFromDocument(doc map[string]interface{}) *entities.Service {
	service := &entities.Service{}
	service.ID, _ = doc["id"].(string)
	service.Name, _ = doc["name"].(string)
	service.Category, _ = doc["category"].(string)
	service.Description, _ = doc["description"].(string)
	service.Image, _ = doc["image"].(string)
	service.Duration, _ = doc["duration"].(string)
	service.Price, _ = doc["price"].(float64)
	service.Discount, _ = doc["discount"].(float64)
	service.Rating, _ = doc["rating"].(float64)
	return service
}

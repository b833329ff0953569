package supabase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

// Repositories bundles every table repository backed by one Supabase project
type Repositories struct {
	Services   repositories.ServiceRepository
	Categories repositories.CategoryRepository
	Locations  repositories.LocationRepository
	Orders     repositories.OrderRepository
	Users      repositories.UserRepository
	Reviews    repositories.ReviewRepository
	Blogs      repositories.BlogRepository
}

// NewRepositories creates the Supabase-backed repositories
func NewRepositories(client *supa.Client) *Repositories {
	return &Repositories{
		Services:   &ServiceStore{rows: newTable[entities.Service](client, "services")},
		Categories: &CategoryStore{rows: newTable[entities.Category](client, "categories")},
		Locations:  &LocationStore{rows: newTable[entities.Location](client, "locations")},
		Orders:     &OrderStore{rows: newTable[entities.Order](client, "orders")},
		Users:      &UserStore{rows: newTable[entities.User](client, "users")},
		Reviews:    &ReviewStore{rows: newTable[entities.Review](client, "reviews")},
		Blogs:      &BlogStore{rows: newTable[entities.Blog](client, "blogs")},
	}
}

// ServiceStore implements ServiceRepository over PostgREST
type ServiceStore struct {
	rows table[entities.Service]
}

func (s *ServiceStore) Create(ctx context.Context, service *entities.Service) error {
	stored, err := s.rows.insert(service)
	if err != nil {
		return err
	}
	*service = *stored
	return nil
}

func (s *ServiceStore) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	return s.rows.first(fmt.Sprintf("service with id %s not found", id), eq("id", id))
}

func (s *ServiceStore) List(ctx context.Context, f repositories.ServiceFilter) ([]*entities.Service, error) {
	filters := []filter{}
	if f.Category != "" {
		filters = append(filters, eq("category", f.Category))
	}
	return s.rows.list(append(filters, orderBy("id", true))...)
}

func (s *ServiceStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Service, error) {
	return single[entities.Service](s.rows.update(changes, eq("id", id)))(fmt.Sprintf("service with id %s not found", id))
}

func (s *ServiceStore) Delete(ctx context.Context, id string) error {
	return deleted[entities.Service](s.rows.delete(eq("id", id)))(fmt.Sprintf("service with id %s not found", id))
}

func (s *ServiceStore) RelinkCategory(ctx context.Context, oldSlug, newSlug string) (int64, error) {
	moved, err := s.rows.update(map[string]interface{}{"category": newSlug}, eq("category", oldSlug))
	return int64(len(moved)), err
}

func (s *ServiceStore) DeleteByCategory(ctx context.Context, slug string) (int64, error) {
	removed, err := s.rows.delete(eq("category", slug))
	return int64(len(removed)), err
}

// CategoryStore implements CategoryRepository over PostgREST
type CategoryStore struct {
	rows table[entities.Category]
}

func (s *CategoryStore) Create(ctx context.Context, category *entities.Category) error {
	stored, err := s.rows.insert(map[string]interface{}{
		"name":        category.Name,
		"slug":        category.Slug,
		"image":       category.Image,
		"description": category.Description,
		"icon":        category.Icon,
	})
	if err != nil {
		return err
	}
	*category = *stored
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	return s.rows.first(fmt.Sprintf("category with id %d not found", id), eqID(id))
}

func (s *CategoryStore) List(ctx context.Context, slug string) ([]*entities.Category, error) {
	filters := []filter{}
	if slug != "" {
		filters = append(filters, eq("slug", slug))
	}
	return s.rows.list(append(filters, orderBy("id", true))...)
}

func (s *CategoryStore) Update(ctx context.Context, id int64, changes map[string]interface{}) (*entities.Category, error) {
	return single[entities.Category](s.rows.update(changes, eqID(id)))(fmt.Sprintf("category with id %d not found", id))
}

func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	return deleted[entities.Category](s.rows.delete(eqID(id)))(fmt.Sprintf("category with id %d not found", id))
}

// LocationStore implements LocationRepository over PostgREST
type LocationStore struct {
	rows table[entities.Location]
}

func (s *LocationStore) Create(ctx context.Context, location *entities.Location) error {
	stored, err := s.rows.insert(location)
	if err != nil {
		return err
	}
	*location = *stored
	return nil
}

func (s *LocationStore) List(ctx context.Context) ([]*entities.Location, error) {
	return s.rows.list(orderBy("id", true))
}

func (s *LocationStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Location, error) {
	return single[entities.Location](s.rows.update(changes, eq("id", id)))(fmt.Sprintf("location with id %s not found", id))
}

func (s *LocationStore) Delete(ctx context.Context, id string) error {
	return deleted[entities.Location](s.rows.delete(eq("id", id)))(fmt.Sprintf("location with id %s not found", id))
}

// OrderStore implements OrderRepository over PostgREST
type OrderStore struct {
	rows table[entities.Order]
}

func (s *OrderStore) Create(ctx context.Context, order *entities.Order) error {
	stored, err := s.rows.insert(map[string]interface{}{
		"userid":        order.UserID,
		"serviceid":     order.ServiceID,
		"status":        order.Status,
		"customer_name": order.CustomerName,
		"email":         order.Email,
		"phone":         order.Phone,
		"address":       order.Address,
		"date":          order.Date,
		"time":          order.Time,
		"total":         order.Total,
	})
	if err != nil {
		return err
	}
	*order = *stored
	return nil
}

func (s *OrderStore) List(ctx context.Context) ([]*entities.Order, error) {
	return s.rows.list(orderBy("created_at", false))
}

func (s *OrderStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Order, error) {
	return single[entities.Order](s.rows.update(changes, eq("id", id)))(fmt.Sprintf("order with id %s not found", id))
}

func (s *OrderStore) Delete(ctx context.Context, id string) error {
	return deleted[entities.Order](s.rows.delete(eq("id", id)))(fmt.Sprintf("order with id %s not found", id))
}

// UserStore implements UserRepository over PostgREST
type UserStore struct {
	rows table[entities.User]
}

func (s *UserStore) Create(ctx context.Context, user *entities.User) error {
	stored, err := s.rows.insert(map[string]interface{}{
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
		"message": user.Message,
		"source":  user.Source,
	})
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.rows.first(fmt.Sprintf("user with email %s not found", email), eq("email", email))
}

func (s *UserStore) Update(ctx context.Context, user *entities.User) error {
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now().UTC()
	}
	stored, err := single[entities.User](s.rows.update(map[string]interface{}{
		"name":       user.Name,
		"phone":      user.Phone,
		"message":    user.Message,
		"updated_at": user.UpdatedAt,
	}, eq("id", user.ID)))(fmt.Sprintf("user with id %s not found", user.ID))
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]*entities.User, error) {
	return s.rows.list(orderBy("created_at", false))
}

// ReviewStore implements ReviewRepository over PostgREST
type ReviewStore struct {
	rows table[entities.Review]
}

func (s *ReviewStore) Create(ctx context.Context, review *entities.Review) error {
	stored, err := s.rows.insert(review)
	if err != nil {
		return err
	}
	*review = *stored
	return nil
}

func (s *ReviewStore) List(ctx context.Context) ([]*entities.Review, error) {
	return s.rows.list(orderBy("date", false))
}

func (s *ReviewStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Review, error) {
	return single[entities.Review](s.rows.update(changes, eq("id", id)))(fmt.Sprintf("review with id %s not found", id))
}

func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	return deleted[entities.Review](s.rows.delete(eq("id", id)))(fmt.Sprintf("review with id %s not found", id))
}

// BlogStore implements BlogRepository over PostgREST
type BlogStore struct {
	rows table[entities.Blog]
}

func (s *BlogStore) Create(ctx context.Context, blog *entities.Blog) error {
	hashtags := []string(blog.Hashtags)
	if hashtags == nil {
		hashtags = []string{}
	}
	stored, err := s.rows.insert(map[string]interface{}{
		"id":        blog.ID,
		"title":     blog.Title,
		"slug":      blog.Slug,
		"content":   blog.Content,
		"image":     blog.Image,
		"author":    blog.Author,
		"published": blog.Published,
		"hashtags":  hashtags,
	})
	if err != nil {
		return err
	}
	*blog = *stored
	return nil
}

func (s *BlogStore) List(ctx context.Context, f repositories.BlogFilter) ([]*entities.Blog, error) {
	filters := []filter{}
	if f.Published != nil {
		filters = append(filters, eq("published", strconv.FormatBool(*f.Published)))
	}
	if f.Slug != "" {
		filters = append(filters, eq("slug", f.Slug))
	}
	return s.rows.list(append(filters, orderBy("created_at", false))...)
}

func (s *BlogStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Blog, error) {
	return single[entities.Blog](s.rows.update(changes, eq("id", id)))(fmt.Sprintf("blog with id %s not found", id))
}

func (s *BlogStore) Delete(ctx context.Context, id string) error {
	return deleted[entities.Blog](s.rows.delete(eq("id", id)))(fmt.Sprintf("blog with id %s not found", id))
}

func eqID(id int64) filter {
	return eq("id", strconv.FormatInt(id, 10))
}

// single returns the first affected row, or not found when nothing matched
func single[T any](rows []*T, err error) func(notFound string) (*T, error) {
	return func(notFound string) (*T, error) {
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, apperrors.NewNotFoundError(notFound)
		}
		return rows[0], nil
	}
}

// deleted reports not found when a delete removed nothing
func deleted[T any](rows []*T, err error) func(notFound string) error {
	return func(notFound string) error {
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperrors.NewNotFoundError(notFound)
		}
		return nil
	}
}

package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

const (
	reviewsTable = "reviews"
	blogsTable   = "blogs"
)

var (
	reviewColumns = []interface{}{"id", "name", "service", "rating", "comment", "date", "avatar"}
	blogColumns   = []interface{}{
		"id", "title", "slug", "content", "image", "author", "published", "hashtags", "created_at",
	}
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	store
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{store{client: client}}
}

// Create inserts a review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":      review.ID,
		"name":    review.Name,
		"service": review.Service,
		"rating":  review.Rating,
		"comment": review.Comment,
		"date":    review.Date,
		"avatar":  review.Avatar,
	}

	ds := dialect.Insert(reviewsTable).Rows(record).Returning(reviewColumns...)
	if err := a.get(ctx, review, ds); err != nil {
		return storeError("failed to create review", err)
	}
	return nil
}

// List retrieves reviews, newest first
func (a *ReviewAdapter) List(ctx context.Context) ([]*entities.Review, error) {
	ds := dialect.From(reviewsTable).Select(reviewColumns...).
		Order(goqu.I("date").Desc(), goqu.I("id").Asc())

	reviews := []*entities.Review{}
	if err := a.selectAll(ctx, &reviews, ds); err != nil {
		return nil, storeError("failed to list reviews", err)
	}
	return reviews, nil
}

// Update applies changes to a review
func (a *ReviewAdapter) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Review, error) {
	review := &entities.Review{}
	ds := dialect.Update(reviewsTable).
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Returning(reviewColumns...)
	if err := a.get(ctx, review, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("review with id %s not found", id), "failed to update review")
	}
	return review, nil
}

// Delete deletes a review by ID
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	rows, err := a.exec(ctx, dialect.Delete(reviewsTable).Where(goqu.Ex{"id": id}))
	if err != nil {
		return storeError("failed to delete review", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	return nil
}

// BlogAdapter implements the BlogRepository interface
type BlogAdapter struct {
	store
}

// NewBlogAdapter creates a new blog adapter
func NewBlogAdapter(client *postgres.Client) repositories.BlogRepository {
	return &BlogAdapter{store{client: client}}
}

// Create inserts a blog post
func (a *BlogAdapter) Create(ctx context.Context, blog *entities.Blog) error {
	hashtags := blog.Hashtags
	if hashtags == nil {
		hashtags = pq.StringArray{}
	}

	record := goqu.Record{
		"id":        blog.ID,
		"title":     blog.Title,
		"slug":      blog.Slug,
		"content":   blog.Content,
		"image":     blog.Image,
		"author":    blog.Author,
		"published": blog.Published,
		"hashtags":  hashtags,
	}

	ds := dialect.Insert(blogsTable).Rows(record).Returning(blogColumns...)
	if err := a.get(ctx, blog, ds); err != nil {
		return storeError("failed to create blog", err)
	}
	return nil
}

// List retrieves blog posts, newest first
func (a *BlogAdapter) List(ctx context.Context, filter repositories.BlogFilter) ([]*entities.Blog, error) {
	ds := dialect.From(blogsTable).Select(blogColumns...)
	if filter.Published != nil {
		ds = ds.Where(goqu.Ex{"published": *filter.Published})
	}
	if filter.Slug != "" {
		ds = ds.Where(goqu.Ex{"slug": filter.Slug})
	}
	ds = ds.Order(goqu.I("created_at").Desc())

	blogs := []*entities.Blog{}
	if err := a.selectAll(ctx, &blogs, ds); err != nil {
		return nil, storeError("failed to list blogs", err)
	}
	return blogs, nil
}

// Update applies changes to a blog post
func (a *BlogAdapter) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Blog, error) {
	blog := &entities.Blog{}
	ds := dialect.Update(blogsTable).
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Returning(blogColumns...)
	if err := a.get(ctx, blog, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("blog with id %s not found", id), "failed to update blog")
	}
	return blog, nil
}

// Delete deletes a blog post by ID
func (a *BlogAdapter) Delete(ctx context.Context, id string) error {
	rows, err := a.exec(ctx, dialect.Delete(blogsTable).Where(goqu.Ex{"id": id}))
	if err != nil {
		return storeError("failed to delete blog", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("blog with id %s not found", id))
	}
	return nil
}

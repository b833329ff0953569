package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	apperrors "github.com/riii-services/backend/pkg/errors"
	"github.com/riii-services/backend/pkg/utils"
)

const reviewDateLayout = "2006-01-02"

// ReviewService manages customer testimonials
type ReviewService struct {
	repo repositories.ReviewRepository
	now  func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(repo repositories.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo, now: time.Now}
}

// Create validates and stores a review. The date is always today's server
// date; any caller-supplied date is discarded.
func (s *ReviewService) Create(ctx context.Context, draft *entities.ReviewDraft) (*entities.Review, error) {
	review := &entities.Review{
		ID:      strings.TrimSpace(draft.ID),
		Name:    strings.TrimSpace(draft.Name),
		Service: strings.TrimSpace(draft.Service),
		Comment: strings.TrimSpace(draft.Comment),
		Date:    s.now().UTC().Format(reviewDateLayout),
	}
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	validRating := draft.Rating != nil && *draft.Rating == math.Trunc(*draft.Rating) &&
		*draft.Rating >= 1 && *draft.Rating <= 5
	if review.Name == "" || review.Service == "" || review.Comment == "" || !validRating {
		return nil, apperrors.NewValidationError("Missing or invalid required review fields (name, service, rating, comment)")
	}
	review.Rating = int(*draft.Rating)

	if avatar := strings.TrimSpace(draft.Avatar); avatar != "" {
		review.Avatar = &avatar
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns reviews, newest first
func (s *ReviewService) List(ctx context.Context) ([]*entities.Review, error) {
	return s.repo.List(ctx)
}

// Update applies a patch to a review
func (s *ReviewService) Update(ctx context.Context, id string, patch *entities.ReviewPatch) (*entities.Review, error) {
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	return s.repo.Update(ctx, id, changes)
}

// Delete removes a review
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// BlogService manages blog posts
type BlogService struct {
	repo repositories.BlogRepository
}

// NewBlogService creates a new blog service
func NewBlogService(repo repositories.BlogRepository) *BlogService {
	return &BlogService{repo: repo}
}

// Create stores a post with its slug derived from the title
func (s *BlogService) Create(ctx context.Context, blog *entities.Blog) (*entities.Blog, error) {
	blog.Title = strings.TrimSpace(blog.Title)
	blog.Content = strings.TrimSpace(blog.Content)
	blog.Image = strings.TrimSpace(blog.Image)
	blog.Author = strings.TrimSpace(blog.Author)
	if blog.Title == "" || blog.Content == "" || blog.Image == "" {
		return nil, apperrors.NewValidationError("Missing required fields: title, content, image")
	}
	if blog.Author == "" {
		blog.Author = entities.DefaultBlogAuthor
	}
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	if blog.Hashtags == nil {
		blog.Hashtags = pq.StringArray{}
	}
	blog.Slug = utils.Slugify(blog.Title)

	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// List returns posts matching filter, newest first
func (s *BlogService) List(ctx context.Context, filter repositories.BlogFilter) ([]*entities.Blog, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a patch; a title change regenerates the slug
func (s *BlogService) Update(ctx context.Context, id string, patch *entities.BlogPatch) (*entities.Blog, error) {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty")
		}
		changes["title"] = title
		changes["slug"] = utils.Slugify(title)
	}
	return s.repo.Update(ctx, id, changes)
}

// Delete removes a post
func (s *BlogService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
)

// ReviewService defines the review operations used by the handler.
type ReviewService interface {
	Create(ctx context.Context, draft *entities.ReviewDraft) (*entities.Review, error)
	List(ctx context.Context) ([]*entities.Review, error)
	Update(ctx context.Context, id string, patch *entities.ReviewPatch) (*entities.Review, error)
	Delete(ctx context.Context, id string) error
}

// BlogService defines the blog operations used by the handler.
type BlogService interface {
	Create(ctx context.Context, blog *entities.Blog) (*entities.Blog, error)
	List(ctx context.Context, filter repositories.BlogFilter) ([]*entities.Blog, error)
	Update(ctx context.Context, id string, patch *entities.BlogPatch) (*entities.Blog, error)
	Delete(ctx context.Context, id string) error
}

// ContentHandler handles /api/reviews and /api/blogs
type ContentHandler struct {
	reviews ReviewService
	blogs   BlogService
}

// NewContentHandler creates a new content handler
func NewContentHandler(reviews ReviewService, blogs BlogService) *ContentHandler {
	return &ContentHandler{reviews: reviews, blogs: blogs}
}

// ListReviews handles GET /api/reviews
func (h *ContentHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /api/reviews
func (h *ContentHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var draft entities.ReviewDraft
	if _, ok := decodeBody(w, r, &draft); !ok {
		return
	}

	review, err := h.reviews.Create(r.Context(), &draft)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PATCH /api/reviews
func (h *ContentHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var patch entities.ReviewPatch
	data, ok := decodeBody(w, r, &patch)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	review, err := h.reviews.Update(r.Context(), id, &patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews
func (h *ContentHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	var env idEnvelope
	data, ok := decodeBody(w, r, &env)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondDeleted(w)
}

// ListBlogs handles GET /api/blogs?published=&slug=
func (h *ContentHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.BlogFilter{Slug: query.Get("slug")}
	if raw := query.Get("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "published must be true or false")
			return
		}
		filter.Published = &published
	}

	blogs, err := h.blogs.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, blogs)
}

// CreateBlog handles POST /api/blogs
func (h *ContentHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var blog entities.Blog
	if _, ok := decodeBody(w, r, &blog); !ok {
		return
	}

	created, err := h.blogs.Create(r.Context(), &blog)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateBlog handles PATCH /api/blogs
func (h *ContentHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	var patch entities.BlogPatch
	data, ok := decodeBody(w, r, &patch)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	blog, err := h.blogs.Update(r.Context(), id, &patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, blog)
}

// DeleteBlog handles DELETE /api/blogs
func (h *ContentHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	var env idEnvelope
	data, ok := decodeBody(w, r, &env)
	if !ok {
		return
	}
	id, ok := requireID(w, data)
	if !ok {
		return
	}

	if err := h.blogs.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondDeleted(w)
}

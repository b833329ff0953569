package routes

import (
	"net/http"

	"github.com/riii-services/backend/internal/api/handlers"
	"github.com/riii-services/backend/internal/api/middleware"
	"github.com/riii-services/backend/internal/infrastructure/observability"
)

// Handlers groups the route handlers. A nil store-backed handler means the
// record store was never constructed; its routes answer with a
// not-configured error.
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Orders   *handlers.OrderHandler
	Location *handlers.LocationHandler
	Content  *handlers.ContentHandler
	Contact  *handlers.ContactHandler
	Upload   *handlers.UploadHandler
	Email    *handlers.EmailHandler
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	handlers        Handlers
	allowedOrigins  []string
	cacheMiddleware *middleware.CacheMiddleware
	adminAuth       *middleware.AdminAuth
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	h Handlers,
	allowedOrigins []string,
	cacheMiddleware *middleware.CacheMiddleware,
	adminAuth *middleware.AdminAuth,
	metrics *observability.Metrics,
) *Router {
	if adminAuth == nil {
		adminAuth = middleware.NewAdminAuth("")
	}
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		allowedOrigins:  allowedOrigins,
		cacheMiddleware: cacheMiddleware,
		adminAuth:       adminAuth,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	admin := r.adminAuth.Require

	// Catalog endpoints
	if c := r.handlers.Catalog; c != nil {
		r.mux.HandleFunc("GET /api/services", c.ListServices)
		r.mux.HandleFunc("GET /api/services/search", c.SearchServices)
		r.mux.HandleFunc("POST /api/services", admin(c.CreateService))
		r.mux.HandleFunc("PATCH /api/services", admin(c.UpdateService))
		r.mux.HandleFunc("DELETE /api/services", admin(c.DeleteService))

		r.mux.HandleFunc("GET /api/categories", c.ListCategories)
		r.mux.HandleFunc("POST /api/categories", admin(c.CreateCategory))
		r.mux.HandleFunc("PATCH /api/categories", admin(c.UpdateCategory))
		r.mux.HandleFunc("DELETE /api/categories", admin(c.DeleteCategory))
	} else {
		r.unavailable("/api/services", "/api/services/search", "/api/categories")
	}

	if l := r.handlers.Location; l != nil {
		r.mux.HandleFunc("GET /api/locations", l.ListLocations)
		r.mux.HandleFunc("POST /api/locations", admin(l.CreateLocation))
		r.mux.HandleFunc("PATCH /api/locations", admin(l.UpdateLocation))
		r.mux.HandleFunc("DELETE /api/locations", admin(l.DeleteLocation))
	} else {
		r.unavailable("/api/locations")
	}

	// Order endpoints; booking is public, everything else is admin
	if o := r.handlers.Orders; o != nil {
		r.mux.HandleFunc("POST /api/orders", o.CreateOrder)
		r.mux.HandleFunc("GET /api/orders", admin(o.ListOrders))
		r.mux.HandleFunc("PATCH /api/orders", admin(o.UpdateOrder))
		r.mux.HandleFunc("DELETE /api/orders", admin(o.DeleteOrder))
	} else {
		r.unavailable("/api/orders")
	}

	// Content endpoints
	if c := r.handlers.Content; c != nil {
		r.mux.HandleFunc("GET /api/reviews", c.ListReviews)
		r.mux.HandleFunc("POST /api/reviews", c.CreateReview)
		r.mux.HandleFunc("PATCH /api/reviews", admin(c.UpdateReview))
		r.mux.HandleFunc("DELETE /api/reviews", admin(c.DeleteReview))

		r.mux.HandleFunc("GET /api/blogs", c.ListBlogs)
		r.mux.HandleFunc("POST /api/blogs", admin(c.CreateBlog))
		r.mux.HandleFunc("PATCH /api/blogs", admin(c.UpdateBlog))
		r.mux.HandleFunc("DELETE /api/blogs", admin(c.DeleteBlog))
	} else {
		r.unavailable("/api/reviews", "/api/blogs")
	}

	// Contact endpoints
	if c := r.handlers.Contact; c != nil {
		r.mux.HandleFunc("GET /api/users", admin(c.ListUsers))
		r.mux.HandleFunc("POST /api/users", c.SubmitUser)
		r.mux.HandleFunc("POST /api/contact", c.SubmitContactForm)
	} else {
		r.unavailable("/api/users", "/api/contact")
	}

	if u := r.handlers.Upload; u != nil {
		r.mux.HandleFunc("POST /api/upload", admin(u.Upload))
	}

	if e := r.handlers.Email; e != nil {
		r.mux.HandleFunc("GET /api/email-status", e.Status)
		r.mux.HandleFunc("POST /api/test-email", admin(e.TestEmail))
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) unavailable(paths ...string) {
	for _, path := range paths {
		r.mux.HandleFunc(path, storeNotConfigured)
	}
}

func storeNotConfigured(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"Database connection not configured"}`))
}

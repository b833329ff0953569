package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/internal/infrastructure/observability"
)

const (
	cacheKeyPrefix      = "http:cache:"
	generationKeyPrefix = "http:gen:"
)

// cachedRoutes lists the public GET collections and, for each, the
// collections whose cached responses a mutation on it invalidates.
var cachedRoutes = map[string][]string{
	"/api/services":   {"/api/services"},
	"/api/categories": {"/api/categories", "/api/services"},
	"/api/locations":  {"/api/locations"},
	"/api/reviews":    {"/api/reviews"},
	"/api/blogs":      {"/api/blogs"},
}

// CacheMiddleware caches successful public GET responses. Every successful
// mutation bumps a per-route generation, so stale entries are never read
// again and expire on their own TTL.
type CacheMiddleware struct {
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CacheMiddleware {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &CacheMiddleware{
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, ok := cachedRoute(r.URL.Path)
		if m.cache == nil || !ok {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method != http.MethodGet {
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)
			if recorder.statusCode < http.StatusBadRequest {
				m.invalidate(r, route)
			}
			return
		}

		// Admin reads bypass the cache
		if r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		logger := observability.LoggerFromContext(r.Context())
		cacheKey := m.generateCacheKey(r, route)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			observability.RecordCacheHit(r.Context(), m.metrics, route)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(cached); err != nil {
				logger.Debug().Err(err).Msg("Failed to write cached response")
			}
			return
		}

		observability.RecordCacheMiss(r.Context(), m.metrics, route)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), m.ttlSeconds); err != nil {
				logger.Warn().Err(err).Str("route", route).Msg("Failed to cache response")
			}
		}
	})
}

func (m *CacheMiddleware) invalidate(r *http.Request, route string) {
	for _, dependent := range cachedRoutes[route] {
		if _, err := m.cache.Incr(r.Context(), generationKeyPrefix+dependent, 0); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).
				Str("route", dependent).
				Msg("Failed to invalidate response cache")
		}
	}
}

func (m *CacheMiddleware) generation(r *http.Request, route string) string {
	data, err := m.cache.Get(r.Context(), generationKeyPrefix+route)
	if err != nil {
		return "0"
	}
	return string(data)
}

// generateCacheKey hashes the route generation, path and raw query
func (m *CacheMiddleware) generateCacheKey(r *http.Request, route string) string {
	key := fmt.Sprintf("%s:%s", m.generation(r, route), r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	hash := sha256.Sum256([]byte(key))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}

// cachedRoute maps a request path to its cached collection
func cachedRoute(path string) (string, bool) {
	path = strings.TrimSuffix(path, "/")
	if _, ok := cachedRoutes[path]; ok {
		return path, true
	}
	// /api/services/search shares the services generation
	for route := range cachedRoutes {
		if strings.HasPrefix(path, route+"/") {
			return route, true
		}
	}
	return "", false
}

// responseRecorder captures the status and, when body is set, the response
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	if r.body != nil {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

package handlers

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/internal/infrastructure/observability"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

const (
	contactRateLimit  = 5
	contactRateWindow = time.Hour
)

// ContactService defines the user and contact operations used by the handler.
type ContactService interface {
	SubmitContact(ctx context.Context, submission *entities.ContactSubmission) (*entities.User, error)
	ContactForm(ctx context.Context, submission *entities.ContactSubmission) (*entities.User, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

// ContactHandler handles /api/users and /api/contact
type ContactHandler struct {
	service ContactService
	cache   providers.CacheProvider
	local   *localRateLimiter
}

// NewContactHandler creates a new contact handler. cache may be nil, in
// which case rate limiting is per process.
func NewContactHandler(service ContactService, cache providers.CacheProvider) *ContactHandler {
	return &ContactHandler{
		service: service,
		cache:   cache,
		local:   newLocalRateLimiter(),
	}
}

// ListUsers handles GET /api/users
func (h *ContactHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// SubmitUser handles POST /api/users, upserting by email
func (h *ContactHandler) SubmitUser(w http.ResponseWriter, r *http.Request) {
	var submission entities.ContactSubmission
	if _, ok := decodeBody(w, r, &submission); !ok {
		return
	}

	user, err := h.service.SubmitContact(r.Context(), &submission)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// SubmitContactForm handles POST /api/contact. A storage failure after
// validation is logged and the submission still reported as received.
func (h *ContactHandler) SubmitContactForm(w http.ResponseWriter, r *http.Request) {
	var submission entities.ContactSubmission
	if _, ok := decodeBody(w, r, &submission); !ok {
		return
	}

	key := "contact:rate:" + clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), key)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	submission.Source = entities.UserSourceContactForm
	if _, err := h.service.ContactForm(r.Context(), &submission); err != nil {
		if apperrors.IsValidation(err) {
			respondWithAppError(w, err)
			return
		}
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("email", submission.Email).Msg("Failed to save contact submission")
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Contact form submitted successfully",
		"success": true,
	})
}

func (h *ContactHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key, contactRateLimit, contactRateWindow)
	}

	count, err := h.cache.Incr(ctx, key, int(contactRateWindow.Seconds()))
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Rate limit cache unavailable, using local limiter")
		return h.local.allow(key, contactRateLimit, contactRateWindow)
	}
	if count > contactRateLimit {
		return false, contactRateWindow
	}
	return true, contactRateWindow
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

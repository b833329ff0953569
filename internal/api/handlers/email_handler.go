package handlers

import (
	"context"
	"net/http"

	"github.com/riii-services/backend/internal/application/services"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

// EmailService defines the email diagnostics used by the handler.
type EmailService interface {
	Status() *services.EmailStatus
	TestEmail(ctx context.Context, recipient string) error
}

// EmailHandler handles /api/email-status and /api/test-email
type EmailHandler struct {
	service EmailService
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(service EmailService) *EmailHandler {
	return &EmailHandler{service: service}
}

// Status handles GET /api/email-status
func (h *EmailHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Status())
}

type testEmailRequest struct {
	Email string `json:"email"`
}

// TestEmail handles POST /api/test-email. The body is optional.
func (h *EmailHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if r.ContentLength != 0 {
		if _, ok := decodeBody(w, r, &req); !ok {
			return
		}
	}

	err := h.service.TestEmail(r.Context(), req.Email)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"message":       "Test email sent successfully",
			"apiKeyPresent": true,
		})
	case apperrors.IsType(err, apperrors.ErrorTypeNotConfigured):
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   services.TestEmailKeyMissing,
			"message": "Please set the RESEND_API_KEY environment variable to test email functionality",
		})
	default:
		message := err.Error()
		if appErr, ok := apperrors.As(err); ok {
			message = appErr.Detail()
		}
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success":       false,
			"error":         message,
			"apiKeyPresent": true,
		})
	}
}

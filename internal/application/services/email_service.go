package services

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

// EmailStatus describes whether confirmation emails can be sent
type EmailStatus struct {
	EmailConfigured bool   `json:"emailConfigured"`
	APIKeyPresent   bool   `json:"apiKeyPresent"`
	Message         string `json:"message"`
	Instructions    string `json:"instructions"`
}

// TestEmailKeyMissing is the error reported by TestEmail without an API key
const TestEmailKeyMissing = "RESEND_API_KEY environment variable is not set"

// EmailService reports notifier configuration and sends sample emails
type EmailService struct {
	notifier providers.Notifier
}

// NewEmailService creates a new email service. notifier is nil when no
// API key is configured.
func NewEmailService(notifier providers.Notifier) *EmailService {
	return &EmailService{notifier: notifier}
}

// Status reports whether the notifier is configured
func (s *EmailService) Status() *EmailStatus {
	if s.notifier != nil {
		return &EmailStatus{
			EmailConfigured: true,
			APIKeyPresent:   true,
			Message:         "Email service is configured and ready to use",
			Instructions:    "Email notifications will be sent when orders are confirmed",
		}
	}
	return &EmailStatus{
		Message: "RESEND_API_KEY environment variable is not set. Please configure it to enable email notifications.",
		Instructions: "To enable email notifications:\n" +
			"1. Sign up at resend.com\n" +
			"2. Get your API key\n" +
			"3. Add RESEND_API_KEY to your environment variables",
	}
}

// TestEmail sends a sample confirmation to recipient, or to the sample
// customer address when recipient is empty
func (s *EmailService) TestEmail(ctx context.Context, recipient string) error {
	if s.notifier == nil {
		return apperrors.NewNotConfiguredError(TestEmailKeyMissing)
	}
	order, service := SampleOrder()
	if recipient == "" {
		recipient = order.Email
	}
	return s.notifier.SendOrderConfirmation(ctx, order, service, recipient)
}

// SampleOrder returns the fixed order and service used for test emails
func SampleOrder() (*entities.Order, *entities.Service) {
	order := &entities.Order{
		ID:           "test-order-123",
		UserID:       "test-user",
		ServiceID:    "test-service",
		Status:       entities.OrderStatusConfirmed,
		CustomerName: "Test Customer",
		Email:        "test@example.com",
		Phone:        "123-456-7890",
		Address:      "123 Test Street, Test City",
		Date:         "2024-01-15",
		Time:         "14:00",
		Total:        99.99,
	}
	service := &entities.Service{
		ID:          "test-service",
		Name:        "Test Service",
		Category:    "test-category",
		Price:       99.99,
		Discount:    10,
		Description: "A test service for email verification",
		Image:       "test-image.jpg",
		Duration:    "2 hours",
		Rating:      5,
	}
	return order, service
}

package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/observability"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

const (
	// EmailNotConfirmed is reported when an update leaves the order unconfirmed
	EmailNotConfirmed = "Email not sent: order status is not confirmed"
	// EmailServiceMissing is reported when the order's service no longer exists
	EmailServiceMissing = "Service not found"
	// EmailNotConfigured is reported when no notifier was constructed
	EmailNotConfigured = "Email service not configured"
)

// OrderService owns the order lifecycle and the confirmation email side effect
type OrderService struct {
	orders   repositories.OrderRepository
	services repositories.ServiceRepository
	notifier providers.Notifier
	metrics  *observability.Metrics
}

// NewOrderService creates a new order service. notifier may be nil.
func NewOrderService(
	orders repositories.OrderRepository,
	services repositories.ServiceRepository,
	notifier providers.Notifier,
	metrics *observability.Metrics,
) *OrderService {
	return &OrderService{
		orders:   orders,
		services: services,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Create validates the draft and inserts the order. Total is stored as given.
func (s *OrderService) Create(ctx context.Context, draft *entities.OrderDraft) (*entities.Order, error) {
	if missing := draft.MissingFields(); len(missing) > 0 {
		return nil, apperrors.NewMissingFieldsError(missing)
	}
	status := entities.OrderStatus(draft.Status)
	if !status.Valid() {
		return nil, invalidStatus(draft.Status)
	}

	order := &entities.Order{
		UserID:       draft.UserID,
		ServiceID:    draft.ServiceID,
		Status:       status,
		CustomerName: draft.CustomerName,
		Email:        draft.Email,
		Phone:        draft.Phone,
		Address:      draft.Address,
		Date:         draft.Date,
		Time:         draft.Time,
		Total:        *draft.Total,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("order_id", order.ID).
		Str("service_id", order.ServiceID).
		Msg("Order created")
	return order, nil
}

// List returns every order, newest first
func (s *OrderService) List(ctx context.Context) ([]*entities.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus writes the new status, then attempts the confirmation email
// when the stored status is confirmed. The email outcome never undoes the write.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*entities.OrderUpdateResult, error) {
	return s.Update(ctx, id, &entities.OrderPatch{Status: &status})
}

// Update applies an admin patch. A patch that carries status gets the same
// email handling as UpdateStatus.
func (s *OrderService) Update(ctx context.Context, id string, patch *entities.OrderPatch) (*entities.OrderUpdateResult, error) {
	if patch.Status != nil && !entities.OrderStatus(*patch.Status).Valid() {
		return nil, invalidStatus(*patch.Status)
	}
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	ctx, span := observability.StartSpan(ctx, "OrderService.Update")
	defer span.End()

	order, err := s.orders.Update(ctx, id, changes)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result := &entities.OrderUpdateResult{Order: order}
	if patch.Status == nil {
		return result, nil
	}

	if order.Status != entities.OrderStatusConfirmed {
		result.EmailError = stringPtr(EmailNotConfirmed)
		return result, nil
	}

	s.sendConfirmation(ctx, result)
	observability.SetSpanAttributes(span, attribute.Bool("email.sent", result.EmailSent))
	observability.RecordEmail(ctx, s.metrics, result.EmailSent)
	return result, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, result *entities.OrderUpdateResult) {
	logger := observability.LoggerFromContext(ctx)
	order := result.Order

	service, err := s.services.GetByID(ctx, order.ServiceID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			result.EmailError = stringPtr(EmailServiceMissing)
		} else {
			result.EmailError = stringPtr(fmt.Sprintf("Failed to fetch service details: %s", errorDetail(err)))
		}
		logger.Warn().Err(err).Str("order_id", order.ID).Msg("Confirmation email skipped")
		return
	}

	if s.notifier == nil {
		result.EmailError = stringPtr(EmailNotConfigured)
		logger.Warn().Str("order_id", order.ID).Msg("Confirmation email skipped: notifier not configured")
		return
	}

	if err := s.notifier.SendOrderConfirmation(ctx, order, service, order.Email); err != nil {
		result.EmailError = stringPtr(errorDetail(err))
		logger.Error().Err(err).Str("order_id", order.ID).Msg("Failed to send confirmation email")
		return
	}

	result.EmailSent = true
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

func invalidStatus(status string) error {
	return apperrors.NewValidationError(fmt.Sprintf(
		"invalid status %q: must be one of pending, confirmed, in-progress, completed, cancelled", status))
}

func stringPtr(s string) *string {
	return &s
}

// errorDetail returns the caller-facing message of err
func errorDetail(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Detail()
	}
	return err.Error()
}

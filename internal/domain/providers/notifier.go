package providers

import (
	"context"

	"github.com/riii-services/backend/internal/domain/entities"
)

// Notifier sends transactional email
type Notifier interface {
	// SendOrderConfirmation emails the booking confirmation for order to recipient
	SendOrderConfirmation(ctx context.Context, order *entities.Order, service *entities.Service, recipient string) error
}

package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riii-services/backend/internal/application/services"
	"github.com/riii-services/backend/internal/domain/entities"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

func validDraft() *entities.OrderDraft {
	total := 120.0
	return &entities.OrderDraft{
		UserID:       "u-1",
		ServiceID:    "svc-1",
		Status:       "pending",
		CustomerName: "Jane Doe",
		Email:        "jane@x.com",
		Phone:        "555-0101",
		Address:      "1 Main St",
		Date:         "2025-03-01",
		Time:         "10:00",
		Total:        &total,
	}
}

func TestOrderService_Create(t *testing.T) {
	t.Run("stores the draft verbatim and returns store-assigned fields", func(t *testing.T) {
		orders := new(MockOrderRepository)
		svc := services.NewOrderService(orders, new(MockServiceRepository), nil, nil)

		created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *entities.Order) bool {
			return o.ID == "" && o.Total == 120 && o.Status == entities.OrderStatusPending
		})).Run(func(args mock.Arguments) {
			o := args.Get(1).(*entities.Order)
			o.ID = "ord-1"
			o.CreatedAt = created
		}).Return(nil)

		order, err := svc.Create(context.Background(), validDraft())

		require.NoError(t, err)
		assert.Equal(t, "ord-1", order.ID)
		assert.Equal(t, created, order.CreatedAt)
		assert.Equal(t, "Jane Doe", order.CustomerName)
		assert.Equal(t, 120.0, order.Total)
		orders.AssertExpectations(t)
	})

	t.Run("enumerates every missing field without writing", func(t *testing.T) {
		orders := new(MockOrderRepository)
		svc := services.NewOrderService(orders, new(MockServiceRepository), nil, nil)

		draft := validDraft()
		draft.Phone = ""
		draft.Date = ""

		order, err := svc.Create(context.Background(), draft)

		assert.Nil(t, order)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "phone")
		assert.Contains(t, err.Error(), "date")
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing total is reported", func(t *testing.T) {
		svc := services.NewOrderService(new(MockOrderRepository), new(MockServiceRepository), nil, nil)
		draft := validDraft()
		draft.Total = nil

		_, err := svc.Create(context.Background(), draft)

		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "missing required fields: total", appErr.Detail())
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		svc := services.NewOrderService(new(MockOrderRepository), new(MockServiceRepository), nil, nil)
		draft := validDraft()
		draft.Status = "shipped"

		_, err := svc.Create(context.Background(), draft)

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	confirmed := &entities.Order{
		ID: "ord-1", ServiceID: "svc-1", Status: entities.OrderStatusConfirmed,
		Email: "jane@x.com", CustomerName: "Jane Doe",
	}
	service := &entities.Service{ID: "svc-1", Name: "Deep Clean"}
	statusChange := map[string]interface{}{"status": "confirmed"}

	t.Run("confirm sends the email to the order address", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		notifier := new(MockNotifier)
		svc := services.NewOrderService(orders, catalog, notifier, nil)

		orders.On("Update", mock.Anything, "ord-1", statusChange).Return(confirmed, nil)
		catalog.On("GetByID", mock.Anything, "svc-1").Return(service, nil)
		notifier.On("SendOrderConfirmation", mock.Anything, confirmed, service, "jane@x.com").Return(nil)

		result, err := svc.UpdateStatus(context.Background(), "ord-1", "confirmed")

		require.NoError(t, err)
		assert.True(t, result.EmailSent)
		assert.Nil(t, result.EmailError)
		assert.Equal(t, entities.OrderStatusConfirmed, result.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("notifier failure keeps the committed status", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		notifier := new(MockNotifier)
		svc := services.NewOrderService(orders, catalog, notifier, nil)

		orders.On("Update", mock.Anything, "ord-1", statusChange).Return(confirmed, nil)
		catalog.On("GetByID", mock.Anything, "svc-1").Return(service, nil)
		notifier.On("SendOrderConfirmation", mock.Anything, confirmed, service, "jane@x.com").
			Return(apperrors.NewExternalError("Failed to send email: Invalid to field", errors.New("422")))

		result, err := svc.UpdateStatus(context.Background(), "ord-1", "confirmed")

		require.NoError(t, err)
		assert.False(t, result.EmailSent)
		require.NotNil(t, result.EmailError)
		assert.Equal(t, "Failed to send email: Invalid to field", *result.EmailError)
		assert.Equal(t, entities.OrderStatusConfirmed, result.Status)
		orders.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("missing service is reported without calling the notifier", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		notifier := new(MockNotifier)
		svc := services.NewOrderService(orders, catalog, notifier, nil)

		orders.On("Update", mock.Anything, "ord-1", statusChange).Return(confirmed, nil)
		catalog.On("GetByID", mock.Anything, "svc-1").Return(nil, apperrors.NewNotFoundError("service not found"))

		result, err := svc.UpdateStatus(context.Background(), "ord-1", "confirmed")

		require.NoError(t, err)
		assert.False(t, result.EmailSent)
		assert.Equal(t, services.EmailServiceMissing, *result.EmailError)
		notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service lookup failure is reported", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		svc := services.NewOrderService(orders, catalog, new(MockNotifier), nil)

		orders.On("Update", mock.Anything, "ord-1", statusChange).Return(confirmed, nil)
		catalog.On("GetByID", mock.Anything, "svc-1").
			Return(nil, apperrors.NewStorageError("failed to get service", errors.New("connection reset")))

		result, err := svc.UpdateStatus(context.Background(), "ord-1", "confirmed")

		require.NoError(t, err)
		assert.Equal(t, "Failed to fetch service details: failed to get service: connection reset", *result.EmailError)
	})

	t.Run("no notifier reports email not configured", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		svc := services.NewOrderService(orders, catalog, nil, nil)

		orders.On("Update", mock.Anything, "ord-1", statusChange).Return(confirmed, nil)
		catalog.On("GetByID", mock.Anything, "svc-1").Return(service, nil)

		result, err := svc.UpdateStatus(context.Background(), "ord-1", "confirmed")

		require.NoError(t, err)
		assert.False(t, result.EmailSent)
		assert.Equal(t, services.EmailNotConfigured, *result.EmailError)
	})

	t.Run("cancelled never calls the notifier", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		notifier := new(MockNotifier)
		svc := services.NewOrderService(orders, catalog, notifier, nil)

		cancelled := &entities.Order{ID: "ord-1", ServiceID: "svc-1", Status: entities.OrderStatusCancelled}
		orders.On("Update", mock.Anything, "ord-1", map[string]interface{}{"status": "cancelled"}).Return(cancelled, nil)

		result, err := svc.UpdateStatus(context.Background(), "ord-1", "cancelled")

		require.NoError(t, err)
		assert.False(t, result.EmailSent)
		assert.Equal(t, services.EmailNotConfirmed, *result.EmailError)
		catalog.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update failure skips email logic", func(t *testing.T) {
		orders := new(MockOrderRepository)
		catalog := new(MockServiceRepository)
		svc := services.NewOrderService(orders, catalog, new(MockNotifier), nil)

		orders.On("Update", mock.Anything, "missing", statusChange).Return(nil, apperrors.NewNotFoundError("order not found"))

		result, err := svc.UpdateStatus(context.Background(), "missing", "confirmed")

		assert.Nil(t, result)
		assert.True(t, apperrors.IsNotFound(err))
		catalog.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown status before writing", func(t *testing.T) {
		orders := new(MockOrderRepository)
		svc := services.NewOrderService(orders, new(MockServiceRepository), nil, nil)

		_, err := svc.UpdateStatus(context.Background(), "ord-1", "done")

		assert.True(t, apperrors.IsValidation(err))
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_Update(t *testing.T) {
	t.Run("patch without status has no email outcome", func(t *testing.T) {
		orders := new(MockOrderRepository)
		svc := services.NewOrderService(orders, new(MockServiceRepository), new(MockNotifier), nil)

		address := "2 Side St"
		updated := &entities.Order{ID: "ord-1", Address: address, Status: entities.OrderStatusPending}
		orders.On("Update", mock.Anything, "ord-1", map[string]interface{}{"address": address}).Return(updated, nil)

		result, err := svc.Update(context.Background(), "ord-1", &entities.OrderPatch{Address: &address})

		require.NoError(t, err)
		assert.False(t, result.EmailSent)
		assert.Nil(t, result.EmailError)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		svc := services.NewOrderService(new(MockOrderRepository), new(MockServiceRepository), nil, nil)

		_, err := svc.Update(context.Background(), "ord-1", &entities.OrderPatch{})

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestOrderService_Delete(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, new(MockServiceRepository), nil, nil)

	orders.On("Delete", mock.Anything, "gone").Return(apperrors.NewNotFoundError("order not found"))

	err := svc.Delete(context.Background(), "gone")

	assert.True(t, apperrors.IsNotFound(err))
	orders.AssertExpectations(t)
}

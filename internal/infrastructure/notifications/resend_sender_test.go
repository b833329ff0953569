package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/pkg/config"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

func sampleOrder() (*entities.Order, *entities.Service) {
	order := &entities.Order{
		ID:           "test-order-123",
		CustomerName: "Test Customer",
		Email:        "test@example.com",
		Phone:        "123-456-7890",
		Address:      "123 Test Street, Test City",
		Date:         "2024-01-15",
		Time:         "14:00",
		Total:        99.99,
		Status:       entities.OrderStatusConfirmed,
	}
	service := &entities.Service{ID: "test-service", Name: "Test Service"}
	return order, service
}

func TestRenderConfirmation(t *testing.T) {
	order, service := sampleOrder()
	html, err := RenderConfirmation(ConfirmationData{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		ServiceName:  service.Name,
		Date:         order.Date,
		Time:         order.Time,
		Total:        order.Total,
		Phone:        order.Phone,
		Address:      order.Address,
	})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "order_confirmation", []byte(html))
}

func TestRenderConfirmation_EscapesInput(t *testing.T) {
	html, err := RenderConfirmation(ConfirmationData{CustomerName: "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestNewResendSender_RequiresKey(t *testing.T) {
	_, err := NewResendSender(&config.EmailConfig{})
	assert.Error(t, err)
}

func TestResendSender_SendOrderConfirmation(t *testing.T) {
	var got resend.SendEmailRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer server.Close()

	sender, err := NewResendSender(&config.EmailConfig{
		ResendAPIKey: "re_test",
		From:         "RIII Services <onboarding@resend.dev>",
		BaseURL:      server.URL,
	})
	require.NoError(t, err)

	order, service := sampleOrder()
	require.NoError(t, sender.SendOrderConfirmation(context.Background(), order, service, order.Email))

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"test@example.com"}, got.To)
	assert.Equal(t, "Order Confirmed - Test Service | RIII Services", got.Subject)
	assert.Equal(t, "RIII Services <onboarding@resend.dev>", got.From)
	assert.Contains(t, got.Html, "#test-order-123")
}

func TestResendSender_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer server.Close()

	sender, err := NewResendSender(&config.EmailConfig{ResendAPIKey: "re_test", From: "x@y.z", BaseURL: server.URL})
	require.NoError(t, err)

	order, service := sampleOrder()
	err = sender.SendOrderConfirmation(context.Background(), order, service, "bad")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
	assert.True(t, strings.HasPrefix(appErr.Message, "Failed to send email: "))
	assert.Contains(t, appErr.Message, "Invalid to field")
}

func TestResendSender_BreakerOpensAfterThreeFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sender, err := NewResendSender(&config.EmailConfig{ResendAPIKey: "re_test", From: "x@y.z", BaseURL: server.URL})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := sender.Send(context.Background(), &resend.SendEmailRequest{To: []string{"a@b.co"}})
		assert.Error(t, err)
	}
	assert.Equal(t, 3, calls)
}

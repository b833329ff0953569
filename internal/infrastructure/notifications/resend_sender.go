package notifications

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/pkg/config"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var confirmationTemplate = template.Must(template.ParseFS(templateFS, "templates/order_confirmation.html"))

// ConfirmationData fills the order confirmation template
type ConfirmationData struct {
	OrderID      string
	CustomerName string
	ServiceName  string
	Date         string
	Time         string
	Total        float64
	Phone        string
	Address      string
}

// RenderConfirmation renders the HTML body of an order confirmation email
func RenderConfirmation(data ConfirmationData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render confirmation: %w", err)
	}
	return buf.String(), nil
}

// ConfirmationSubject is the subject line for a confirmed order
func ConfirmationSubject(serviceName string) string {
	return fmt.Sprintf("Order Confirmed - %s | RIII Services", serviceName)
}

// ResendSender sends email through the Resend API
type ResendSender struct {
	client  *resend.Client
	from    string
	breaker *gobreaker.CircuitBreaker
}

var _ providers.Notifier = (*ResendSender)(nil)

// NewResendSender creates a Resend sender. The breaker opens after three
// consecutive failures and half-opens after 30 seconds.
func NewResendSender(cfg *config.EmailConfig) (*ResendSender, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("RESEND_API_KEY must be set")
	}

	client := resend.NewCustomClient(&http.Client{Timeout: 30 * time.Second}, cfg.ResendAPIKey)
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid RESEND_BASE_URL: %w", err)
		}
		client.BaseURL = baseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "resend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Email circuit breaker state changed")
		},
	})

	return &ResendSender{
		client:  client,
		from:    cfg.From,
		breaker: breaker,
	}, nil
}

// SendOrderConfirmation emails the booking confirmation for order to recipient
func (s *ResendSender) SendOrderConfirmation(ctx context.Context, order *entities.Order, service *entities.Service, recipient string) error {
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
	if err != nil {
		return apperrors.NewInternalError("failed to render email", err)
	}

	id, err := s.Send(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{recipient},
		Subject: ConfirmationSubject(service.Name),
		Html:    html,
	})
	if err != nil {
		return err
	}

	log.Info().Str("order_id", order.ID).Str("email_id", id).Msg("Order confirmation email sent")
	return nil
}

// Send submits one email and returns the provider message ID
func (s *ResendSender) Send(ctx context.Context, email *resend.SendEmailRequest) (string, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		sent, err := s.client.Emails.SendWithContext(ctx, email)
		if err != nil {
			return nil, err
		}
		return sent.Id, nil
	})
	if err != nil {
		return "", apperrors.NewExternalError(fmt.Sprintf("Failed to send email: %v", err), err)
	}
	return result.(string), nil
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/observability"
	apperrors "github.com/riii-services/backend/pkg/errors"
	"github.com/riii-services/backend/pkg/utils"
)

// ContactService keeps one user record per email across contact submissions
type ContactService struct {
	users repositories.UserRepository
	now   func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(users repositories.UserRepository) *ContactService {
	return &ContactService{users: users, now: time.Now}
}

// SubmitContact upserts the user keyed by email. An existing user gets the
// new name and phone, and a non-empty message is appended to the history.
func (s *ContactService) SubmitContact(ctx context.Context, submission *entities.ContactSubmission) (*entities.User, error) {
	sub := normalizeSubmission(submission)
	if sub.Name == "" || sub.Email == "" || sub.Phone == "" {
		return nil, apperrors.NewValidationError("Missing required fields: name, email, phone")
	}
	if !utils.IsValidEmail(sub.Email) {
		return nil, apperrors.NewValidationError("Invalid email format")
	}
	return s.upsert(ctx, sub)
}

// ContactForm handles the public contact form, where message is required
func (s *ContactService) ContactForm(ctx context.Context, submission *entities.ContactSubmission) (*entities.User, error) {
	sub := normalizeSubmission(submission)
	if sub.Name == "" || sub.Email == "" || sub.Phone == "" || sub.Message == "" {
		return nil, apperrors.NewValidationError("Missing required fields")
	}
	if !utils.IsValidEmail(sub.Email) {
		return nil, apperrors.NewValidationError("Invalid email format")
	}
	return s.upsert(ctx, sub)
}

// ListUsers returns every user, newest first
func (s *ContactService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return s.users.List(ctx)
}

func (s *ContactService) upsert(ctx context.Context, sub *entities.ContactSubmission) (*entities.User, error) {
	logger := observability.LoggerFromContext(ctx)

	existing, err := s.users.GetByEmail(ctx, sub.Email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}

	if existing != nil {
		existing.Name = sub.Name
		existing.Phone = sub.Phone
		existing.AppendMessage(sub.Message)
		existing.UpdatedAt = s.now().UTC()
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, err
		}
		logger.Info().Str("user_id", existing.ID).Msg("Contact merged into existing user")
		return existing, nil
	}

	source := sub.Source
	if source == "" {
		source = entities.UserSourceContactForm
	}
	user := &entities.User{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Message: sub.Message,
		Source:  source,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Str("source", source).Msg("User created from contact")
	return user, nil
}

func normalizeSubmission(in *entities.ContactSubmission) *entities.ContactSubmission {
	return &entities.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
		Source:  strings.TrimSpace(in.Source),
	}
}

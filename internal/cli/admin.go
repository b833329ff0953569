package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/riii-services/backend/internal/application/services"
	"github.com/riii-services/backend/pkg/auth"
)

// NewTokenCommand creates the token command.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token signed with ADMIN_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cfg.Auth.AuthEnabled() {
				return fmt.Errorf("ADMIN_JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.GenerateToken(cfg.Auth.AdminJWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			expires := time.Now().Add(ttl).UTC()
			return opts.print(cmd, token, map[string]string{
				"token":      token,
				"subject":    subject,
				"expires_at": expires.Format(time.RFC3339),
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default ADMIN_TOKEN_TTL_HOURS)")
	return cmd
}

// NewEmailStatusCommand creates the email-status command.
func NewEmailStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "email-status",
		Short: "Report whether confirmation email is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emails, err := opts.emailService()
			if err != nil {
				return err
			}
			status := emails.Status()
			return opts.print(cmd, status.Message, status)
		},
	}
}

// NewEmailTestCommand creates the email-test command.
func NewEmailTestCommand(opts *RootOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "email-test",
		Short: "Send a sample order confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emails, err := opts.emailService()
			if err != nil {
				return err
			}
			if err := emails.TestEmail(cmd.Context(), to); err != nil {
				return err
			}
			return opts.print(cmd, "Test email sent successfully", map[string]bool{"success": true})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient (default: the sample order's address)")
	return cmd
}

func (o *RootOptions) emailService() (*services.EmailService, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	notifier, err := o.OpenNotifier(&cfg.Email)
	if err != nil {
		return nil, err
	}
	return services.NewEmailService(notifier), nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riii-services/backend/internal/bootstrap"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/pkg/config"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and the constructors commands use to reach
// infrastructure. Tests replace the constructors.
type RootOptions struct {
	Format string

	LoadConfig      func() (*config.Config, error)
	OpenStore       func(ctx context.Context, cfg *config.Config) (*bootstrap.Store, error)
	OpenSearchIndex func(ctx context.Context, cfg *config.TypesenseConfig) (providers.ServiceSearchIndex, error)
	OpenNotifier    func(cfg *config.EmailConfig) (providers.Notifier, error)
}

// DefaultOptions connects to the infrastructure named by the environment
func DefaultOptions() *RootOptions {
	return &RootOptions{
		Format:     "text",
		LoadConfig: config.Load,
		OpenStore:  bootstrap.OpenStore,
		OpenSearchIndex: func(ctx context.Context, cfg *config.TypesenseConfig) (providers.ServiceSearchIndex, error) {
			adapter, err := bootstrap.OpenSearchIndex(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return bootstrap.SearchIndex(adapter), nil
		},
		OpenNotifier: bootstrap.OpenNotifier,
	}
}

// NewRootCommand creates the riiictl root command
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = DefaultOptions()
	}

	cmd := &cobra.Command{
		Use:   "riiictl",
		Short: "Operator tooling for the RIII services backend",
		Long:  "Apply the schema, seed the catalog, rebuild the search index, mint admin tokens and check email delivery.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", opts.Format, "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewReindexCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewEmailStatusCommand(opts))
	cmd.AddCommand(NewEmailTestCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// print writes text, or v as indented JSON when --format=json
func (o *RootOptions) print(cmd *cobra.Command, text string, v interface{}) error {
	out := cmd.OutOrStdout()
	if o.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}

// openStore loads configuration and connects the record store
func (o *RootOptions) openStore(ctx context.Context) (*config.Config, *bootstrap.Store, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	store, err := o.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	return cfg, store, nil
}

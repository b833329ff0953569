package cli

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/riii-services/backend/internal/adapters/database"
	"github.com/riii-services/backend/internal/application/services"
	"github.com/riii-services/backend/internal/domain/entities"
)

//go:embed fixtures/seed.yaml
var seedYAML []byte

// Fixtures is the sample catalog loaded by the seed command
type Fixtures struct {
	Categories []entities.Category     `yaml:"categories"`
	Services   []entities.ServiceDraft `yaml:"services"`
	Locations  []entities.Location     `yaml:"locations"`
	Reviews    []entities.ReviewDraft  `yaml:"reviews"`
	Blogs      []entities.Blog         `yaml:"blogs"`
}

// SeedResult counts the records inserted per table
type SeedResult struct {
	Categories int `json:"categories"`
	Services   int `json:"services"`
	Locations  int `json:"locations"`
	Reviews    int `json:"reviews"`
	Blogs      int `json:"blogs"`
	Failed     int `json:"failed"`
}

// LoadFixtures parses the embedded seed data
func LoadFixtures() (*Fixtures, error) {
	var fixtures Fixtures
	if err := yaml.Unmarshal(seedYAML, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixtures: %w", err)
	}
	return &fixtures, nil
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if store.Postgres == nil {
				return fmt.Errorf("migrate requires STORE_DRIVER=postgres; the %s schema is managed by the hosted project", store.Driver)
			}
			if err := database.Migrate(ctx, store.Postgres); err != nil {
				return err
			}
			return opts.print(cmd, "Schema applied", map[string]bool{"migrated": true})
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample catalog, locations, reviews and blog posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if reset {
				if store.Postgres == nil {
					return fmt.Errorf("--reset requires STORE_DRIVER=postgres")
				}
				log.Info().Msg("Truncating tables before seeding")
				if err := database.Reset(ctx, store.Postgres); err != nil {
					return err
				}
			}

			fixtures, err := LoadFixtures()
			if err != nil {
				return err
			}

			index, err := opts.OpenSearchIndex(ctx, &cfg.Typesense)
			if err != nil {
				log.Warn().Err(err).Msg("Search index unavailable; seeding without indexing")
			}

			result := Seed(ctx, fixtures, &SeedTargets{
				Catalog:   services.NewCatalogService(store.Services, store.Categories, store.Tx, index),
				Locations: services.NewLocationService(store.Locations),
				Reviews:   services.NewReviewService(store.Reviews),
				Blogs:     services.NewBlogService(store.Blogs),
			})

			text := fmt.Sprintf("Seeded %d categories, %d services, %d locations, %d reviews, %d blogs (%d failed)",
				result.Categories, result.Services, result.Locations, result.Reviews, result.Blogs, result.Failed)
			return opts.print(cmd, text, result)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "truncate every table before seeding (postgres only)")
	return cmd
}

// SeedTargets are the services the seed command writes through
type SeedTargets struct {
	Catalog   *services.CatalogService
	Locations *services.LocationService
	Reviews   *services.ReviewService
	Blogs     *services.BlogService
}

// Seed inserts fixtures through the application services. Failures are
// logged and counted and seeding continues.
func Seed(ctx context.Context, fixtures *Fixtures, targets *SeedTargets) *SeedResult {
	result := &SeedResult{}
	record := func(kind, name string, err error, counter *int) {
		if err != nil {
			log.Warn().Err(err).Str("kind", kind).Str("name", name).Msg("Failed to seed record")
			result.Failed++
			return
		}
		*counter++
	}

	for i := range fixtures.Categories {
		c := fixtures.Categories[i]
		_, err := targets.Catalog.CreateCategory(ctx, &c)
		record("category", c.Name, err, &result.Categories)
	}
	for i := range fixtures.Services {
		_, err := targets.Catalog.CreateService(ctx, &fixtures.Services[i])
		record("service", fixtures.Services[i].Name, err, &result.Services)
	}
	for i := range fixtures.Locations {
		l := fixtures.Locations[i]
		_, err := targets.Locations.Create(ctx, &l)
		record("location", l.Name, err, &result.Locations)
	}
	for i := range fixtures.Reviews {
		_, err := targets.Reviews.Create(ctx, &fixtures.Reviews[i])
		record("review", fixtures.Reviews[i].Name, err, &result.Reviews)
	}
	for i := range fixtures.Blogs {
		b := fixtures.Blogs[i]
		_, err := targets.Blogs.Create(ctx, &b)
		record("blog", b.Title, err, &result.Blogs)
	}
	return result
}

// NewReindexCommand creates the reindex command.
func NewReindexCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push every service to the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, store, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			index, err := opts.OpenSearchIndex(ctx, &cfg.Typesense)
			if err != nil {
				return fmt.Errorf("failed to open search index: %w", err)
			}

			catalog := services.NewCatalogService(store.Services, store.Categories, store.Tx, index)
			count, err := catalog.Reindex(ctx)
			if err != nil {
				return err
			}
			return opts.print(cmd, fmt.Sprintf("Indexed %d services", count), map[string]int{"indexed": count})
		},
	}
}

// Package bootstrap builds the record store and optional infrastructure
// shared by the API server and the operator CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/riii-services/backend/internal/adapters/cache"
	"github.com/riii-services/backend/internal/adapters/database"
	"github.com/riii-services/backend/internal/adapters/search"
	"github.com/riii-services/backend/internal/adapters/storage"
	"github.com/riii-services/backend/internal/adapters/supabase"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
	redisclient "github.com/riii-services/backend/internal/infrastructure/clients/redis"
	tsclient "github.com/riii-services/backend/internal/infrastructure/clients/typesense"
	"github.com/riii-services/backend/internal/infrastructure/notifications"
	"github.com/riii-services/backend/pkg/config"
	"github.com/riii-services/backend/pkg/retry"
)

// Store bundles the repositories of one record store backend
type Store struct {
	Driver     string
	Services   repositories.ServiceRepository
	Categories repositories.CategoryRepository
	Locations  repositories.LocationRepository
	Orders     repositories.OrderRepository
	Users      repositories.UserRepository
	Reviews    repositories.ReviewRepository
	Blogs      repositories.BlogRepository
	Tx         repositories.Transactor

	// Postgres is set only for the postgres driver
	Postgres *postgres.Client
}

// Close releases the store connection
func (s *Store) Close() error {
	if s.Postgres != nil {
		return s.Postgres.Close()
	}
	return nil
}

// OpenStore connects the record store selected by STORE_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSupabase:
		client, err := supabase.NewClient(&cfg.Supabase)
		if err != nil {
			return nil, err
		}
		repos := supabase.NewRepositories(client)
		return &Store{
			Driver:     cfg.Store.Driver,
			Services:   repos.Services,
			Categories: repos.Categories,
			Locations:  repos.Locations,
			Orders:     repos.Orders,
			Users:      repos.Users,
			Reviews:    repos.Reviews,
			Blogs:      repos.Blogs,
			Tx:         supabase.NewTransactor(),
		}, nil

	case config.StoreDriverPostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(client), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewPostgresStore wires every repository to one Postgres client
func NewPostgresStore(client *postgres.Client) *Store {
	return &Store{
		Driver:     config.StoreDriverPostgres,
		Services:   database.NewServiceAdapter(client),
		Categories: database.NewCategoryAdapter(client),
		Locations:  database.NewLocationAdapter(client),
		Orders:     database.NewOrderAdapter(client),
		Users:      database.NewUserAdapter(client),
		Reviews:    database.NewReviewAdapter(client),
		Blogs:      database.NewBlogAdapter(client),
		Tx:         database.NewTxManager(client),
		Postgres:   client,
	}
}

// OpenCache connects Redis when enabled. Both returns are nil when disabled.
func OpenCache(ctx context.Context, cfg *config.RedisConfig) (providers.CacheProvider, *redisclient.Client, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	client, err := redisclient.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisAdapter(client), client, nil
}

// OpenSearchIndex connects Typesense and ensures the collection exists.
// It returns nil when search is disabled.
func OpenSearchIndex(ctx context.Context, cfg *config.TypesenseConfig) (*search.TypesenseAdapter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client, err := tsclient.NewClient(ctx, cfg, retry.DefaultConfig())
	if err != nil {
		return nil, err
	}
	adapter := search.NewTypesenseAdapter(client)
	if err := adapter.InitSchema(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}

// SearchIndex converts an optional adapter to the provider interface without
// producing a typed nil.
func SearchIndex(adapter *search.TypesenseAdapter) providers.ServiceSearchIndex {
	if adapter == nil {
		return nil
	}
	return adapter
}

// OpenNotifier builds the Resend notifier. It returns nil without an API key.
func OpenNotifier(cfg *config.EmailConfig) (providers.Notifier, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	sender, err := notifications.NewResendSender(cfg)
	if err != nil {
		return nil, err
	}
	return sender, nil
}

// OpenFileStorage builds the S3 uploader. It returns nil without credentials.
func OpenFileStorage(ctx context.Context, cfg *config.Config) (providers.FileStorage, error) {
	if !cfg.Storage.Configured() {
		return nil, nil
	}
	s3, err := storage.NewS3Storage(ctx, &cfg.Storage, cfg.Supabase.URL)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("Object storage initialized")
	return s3, nil
}

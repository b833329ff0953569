package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riii-services/backend/internal/bootstrap"
	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/providers"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
	"github.com/riii-services/backend/pkg/auth"
	"github.com/riii-services/backend/pkg/config"
)

type fakeCategories struct {
	repositories.CategoryRepository
	rows []*entities.Category
}

func (f *fakeCategories) Create(ctx context.Context, c *entities.Category) error {
	c.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, c)
	return nil
}

type fakeServices struct {
	repositories.ServiceRepository
	rows []*entities.Service
}

func (f *fakeServices) Create(ctx context.Context, s *entities.Service) error {
	f.rows = append(f.rows, s)
	return nil
}

func (f *fakeServices) List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	return f.rows, nil
}

type fakeLocations struct {
	repositories.LocationRepository
	rows []*entities.Location
}

func (f *fakeLocations) Create(ctx context.Context, l *entities.Location) error {
	f.rows = append(f.rows, l)
	return nil
}

type fakeReviews struct {
	repositories.ReviewRepository
	rows []*entities.Review
}

func (f *fakeReviews) Create(ctx context.Context, r *entities.Review) error {
	f.rows = append(f.rows, r)
	return nil
}

type fakeBlogs struct {
	repositories.BlogRepository
	rows []*entities.Blog
	err  error
}

func (f *fakeBlogs) Create(ctx context.Context, b *entities.Blog) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, b)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingIndex struct {
	indexed []string
}

func (r *recordingIndex) Index(ctx context.Context, s *entities.Service) error {
	r.indexed = append(r.indexed, s.ID)
	return nil
}

func (r *recordingIndex) Remove(ctx context.Context, id string) error { return nil }

func (r *recordingIndex) Search(ctx context.Context, q string, limit int) ([]*entities.Service, error) {
	return nil, nil
}

type sentNotifier struct {
	recipients []string
}

func (s *sentNotifier) SendOrderConfirmation(ctx context.Context, o *entities.Order, svc *entities.Service, recipient string) error {
	s.recipients = append(s.recipients, recipient)
	return nil
}

func memoryStore() *bootstrap.Store {
	return &bootstrap.Store{
		Driver:     config.StoreDriverSupabase,
		Services:   &fakeServices{},
		Categories: &fakeCategories{},
		Locations:  &fakeLocations{},
		Reviews:    &fakeReviews{},
		Blogs:      &fakeBlogs{},
		Tx:         passthroughTx{},
	}
}

func testOptions(cfg *config.Config, store *bootstrap.Store, index providers.ServiceSearchIndex, notifier providers.Notifier) *RootOptions {
	return &RootOptions{
		Format:     "text",
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		OpenStore: func(ctx context.Context, _ *config.Config) (*bootstrap.Store, error) {
			return store, nil
		},
		OpenSearchIndex: func(ctx context.Context, _ *config.TypesenseConfig) (providers.ServiceSearchIndex, error) {
			return index, nil
		},
		OpenNotifier: func(_ *config.EmailConfig) (providers.Notifier, error) {
			return notifier, nil
		},
	}
}

func run(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(DefaultOptions())
	require.NotNil(t, cmd)
	assert.Equal(t, "riiictl", cmd.Use)

	for _, name := range []string{"migrate", "seed", "reindex", "token", "email-status", "email-test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := run(t, testOptions(&config.Config{}, memoryStore(), nil, nil), "email-status", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestLoadFixtures(t *testing.T) {
	fixtures, err := LoadFixtures()
	require.NoError(t, err)

	require.NotEmpty(t, fixtures.Categories)
	assert.Equal(t, "home-cleaning", fixtures.Categories[0].Slug)
	require.NotEmpty(t, fixtures.Services)
	require.NotNil(t, fixtures.Services[0].Price)
	assert.Equal(t, 150.0, *fixtures.Services[0].Price)

	slugs := map[string]bool{}
	for _, c := range fixtures.Categories {
		slugs[c.Slug] = true
	}
	for _, s := range fixtures.Services {
		assert.True(t, slugs[s.Category], "service %s points at unknown category %s", s.Name, s.Category)
	}
}

func TestSeedCommand(t *testing.T) {
	store := memoryStore()
	index := &recordingIndex{}

	out, err := run(t, testOptions(&config.Config{}, store, index, nil), "seed", "--format", "json")
	require.NoError(t, err)

	var result SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	fixtures, err := LoadFixtures()
	require.NoError(t, err)

	assert.Equal(t, len(fixtures.Categories), result.Categories)
	assert.Equal(t, len(fixtures.Services), result.Services)
	assert.Equal(t, len(fixtures.Locations), result.Locations)
	assert.Equal(t, len(fixtures.Reviews), result.Reviews)
	assert.Equal(t, len(fixtures.Blogs), result.Blogs)
	assert.Zero(t, result.Failed)

	blogs := store.Blogs.(*fakeBlogs).rows
	require.NotEmpty(t, blogs)
	assert.Equal(t, "how-often-should-you-deep-clean-your-home", blogs[0].Slug)
	assert.Equal(t, entities.DefaultBlogAuthor, blogs[0].Author)
	assert.Len(t, index.indexed, len(fixtures.Services))
}

func TestSeed_CountsFailures(t *testing.T) {
	store := memoryStore()
	store.Blogs = &fakeBlogs{err: errors.New("insert failed")}

	out, err := run(t, testOptions(&config.Config{}, store, nil, nil), "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 failed)")
}

func TestSeed_ResetRequiresPostgres(t *testing.T) {
	_, err := run(t, testOptions(&config.Config{}, memoryStore(), nil, nil), "seed", "--reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--reset requires STORE_DRIVER=postgres")
}

func TestMigrateCommand(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS categories").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	store := bootstrap.NewPostgresStore(postgres.NewClientFromDB(db))
	out, err := run(t, testOptions(&config.Config{}, store, nil, nil), "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Schema applied\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateCommand_Supabase(t *testing.T) {
	_, err := run(t, testOptions(&config.Config{}, memoryStore(), nil, nil), "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER=postgres")
}

func TestReindexCommand(t *testing.T) {
	store := memoryStore()
	store.Services = &fakeServices{rows: []*entities.Service{{ID: "1"}, {ID: "2"}}}
	index := &recordingIndex{}

	out, err := run(t, testOptions(&config.Config{}, store, index, nil), "reindex")
	require.NoError(t, err)
	assert.Equal(t, "Indexed 2 services\n", out)
	assert.Equal(t, []string{"1", "2"}, index.indexed)
}

func TestReindexCommand_NoIndex(t *testing.T) {
	_, err := run(t, testOptions(&config.Config{}, memoryStore(), nil, nil), "reindex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Search index not configured")
}

func TestTokenCommand(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{AdminJWTSecret: "cli-secret", TokenTTL: time.Hour}}

	out, err := run(t, testOptions(cfg, nil, nil, nil), "token", "--subject", "ops")
	require.NoError(t, err)

	claims, err := auth.ValidateToken("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	_, err := run(t, testOptions(&config.Config{}, nil, nil, nil), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_JWT_SECRET")
}

func TestEmailCommands(t *testing.T) {
	t.Run("status without key", func(t *testing.T) {
		out, err := run(t, testOptions(&config.Config{}, nil, nil, nil), "email-status", "--format", "json")
		require.NoError(t, err)

		var status map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		assert.Equal(t, false, status["emailConfigured"])
	})

	t.Run("test email", func(t *testing.T) {
		notifier := &sentNotifier{}
		out, err := run(t, testOptions(&config.Config{}, nil, nil, notifier), "email-test", "--to", "ops@riii.example")
		require.NoError(t, err)
		assert.Equal(t, "Test email sent successfully\n", out)
		assert.Equal(t, []string{"ops@riii.example"}, notifier.recipients)
	})

	t.Run("test email without notifier", func(t *testing.T) {
		_, err := run(t, testOptions(&config.Config{}, nil, nil, nil), "email-test")
		require.Error(t, err)
	})
}

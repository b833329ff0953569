package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riii-services/backend/internal/application/services"
	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/pkg/config"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

func newTestRepositories(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Repositories, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(&config.SupabaseConfig{URL: server.URL, ServiceRoleKey: "service-key"})
	require.NoError(t, err)
	return NewRepositories(client), &requests
}

func writeRows(w http.ResponseWriter, rows interface{}, n int) {
	w.Header().Set("Content-Type", "application/json")
	if n == 0 {
		w.Header().Set("Content-Range", "*/0")
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", n-1, n))
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func TestServiceStore_ListFiltersByCategory(t *testing.T) {
	repos, requests := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, []entities.Service{{ID: "svc-1", Name: "Deep Clean", Category: "cleaning", Price: 120}}, 1)
	})

	services, err := repos.Services.List(context.Background(), repositories.ServiceFilter{Category: "cleaning"})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Deep Clean", services[0].Name)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/rest/v1/services", req.Path)
	assert.Contains(t, req.Query, "category=eq.cleaning")
}

func TestServiceStore_GetByIDNotFound(t *testing.T) {
	repos, _ := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, []entities.Service{}, 0)
	})

	_, err := repos.Services.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestServiceStore_RelinkCategoryCountsRows(t *testing.T) {
	repos, requests := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, []entities.Service{{ID: "a", Category: "new"}, {ID: "b", Category: "new"}}, 2)
	})

	moved, err := repos.Services.RelinkCategory(context.Background(), "old", "new")
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Contains(t, req.Query, "category=eq.old")
	assert.JSONEq(t, `{"category":"new"}`, req.Body)
}

func TestCategoryStore_CreateTakesStoreID(t *testing.T) {
	repos, requests := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		writeRows(w, []entities.Category{{ID: 42, Name: "Cleaning", Slug: "cleaning"}}, 1)
	})

	category := &entities.Category{Name: "Cleaning", Slug: "cleaning"}
	require.NoError(t, repos.Categories.Create(context.Background(), category))
	assert.Equal(t, int64(42), category.ID)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.NotContains(t, req.Body, `"id"`)
}

func TestOrderStore_DeleteMissingIsNotFound(t *testing.T) {
	repos, requests := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, []entities.Order{}, 0)
	})

	err := repos.Orders.Delete(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, http.MethodDelete, (*requests)[0].Method)
}

func TestUserStore_CreateConflict(t *testing.T) {
	repos, _ := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"users_email_key\""}`))
	})

	err := repos.Users.Create(context.Background(), &entities.User{Name: "Jane", Email: "jane@x.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestBlogStore_ListPublished(t *testing.T) {
	repos, requests := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, []map[string]interface{}{{
			"id": "b1", "title": "Tips", "slug": "tips", "published": true,
			"hashtags": []string{"home"}, "created_at": "2026-03-01T09:00:00.123456+00:00",
		}}, 1)
	})

	published := true
	blogs, err := repos.Blogs.List(context.Background(), repositories.BlogFilter{Published: &published})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, []string{"home"}, []string(blogs[0].Hashtags))
	assert.Contains(t, (*requests)[0].Query, "published=eq.true")
}

func TestSequentialTransactor_RunsFn(t *testing.T) {
	called := false
	err := NewTransactor().WithinTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestCategoryRenameOntoTakenSlugLeavesServices(t *testing.T) {
	repos, requests := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"categories_slug_key\""}`))
			return
		}
		if strings.Contains(r.URL.RawQuery, "slug=eq.taken") {
			writeRows(w, []entities.Category{{ID: 3, Name: "Taken", Slug: "taken"}}, 1)
			return
		}
		writeRows(w, []entities.Category{{ID: 7, Name: "Old", Slug: "old"}}, 1)
	})

	catalog := services.NewCatalogService(repos.Services, repos.Categories, NewTransactor(), nil)
	slug := "taken"
	_, err := catalog.UpdateCategory(context.Background(), 7, &entities.CategoryPatch{Slug: &slug})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	for _, req := range *requests {
		assert.Equal(t, http.MethodGet, req.Method, "unexpected write to %s", req.Path)
	}
}

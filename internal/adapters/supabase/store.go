package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/pkg/config"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

const returnRepresentation = "representation"

// NewClient creates a Supabase client authenticated with the service role key
func NewClient(cfg *config.SupabaseConfig) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.URL, cfg.ServiceRoleKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
}

type filter func(*postgrest.FilterBuilder) *postgrest.FilterBuilder

// table reads and writes rows of one PostgREST table as T
type table[T any] struct {
	client *supa.Client
	name   string
}

func newTable[T any](client *supa.Client, name string) table[T] {
	return table[T]{client: client, name: name}
}

func (t table[T]) list(filters ...filter) ([]*T, error) {
	fb := t.client.From(t.name).Select("*", "", false)
	for _, f := range filters {
		fb = f(fb)
	}
	data, _, err := fb.Execute()
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to list %s", t.name), err)
	}
	return decode[T](t.name, data)
}

func (t table[T]) first(notFound string, filters ...filter) (*T, error) {
	rows, err := t.list(append(filters, func(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return fb.Limit(1, "")
	})...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	return rows[0], nil
}

func (t table[T]) insert(value interface{}) (*T, error) {
	data, _, err := t.client.From(t.name).Insert(value, false, "", returnRepresentation, "").Execute()
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to create %s row", t.name), err)
	}
	rows, err := decode[T](t.name, data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create %s row", t.name), fmt.Errorf("empty response"))
	}
	return rows[0], nil
}

func (t table[T]) update(changes interface{}, filters ...filter) ([]*T, error) {
	fb := t.client.From(t.name).Update(changes, returnRepresentation, "")
	for _, f := range filters {
		fb = f(fb)
	}
	data, _, err := fb.Execute()
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to update %s", t.name), err)
	}
	return decode[T](t.name, data)
}

func (t table[T]) delete(filters ...filter) ([]*T, error) {
	fb := t.client.From(t.name).Delete(returnRepresentation, "")
	for _, f := range filters {
		fb = f(fb)
	}
	data, _, err := fb.Execute()
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to delete from %s", t.name), err)
	}
	return decode[T](t.name, data)
}

func decode[T any](name string, data []byte) ([]*T, error) {
	rows := []*T{}
	if len(data) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to decode %s rows", name), err)
	}
	return rows, nil
}

func eq(column, value string) filter {
	return func(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return fb.Eq(column, value)
	}
}

func orderBy(column string, ascending bool) filter {
	return func(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return fb.Order(column, &postgrest.OrderOpts{Ascending: ascending})
	}
}

// storeError maps a PostgREST failure onto the application error taxonomy
func storeError(message string, err error) error {
	if strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key") {
		return apperrors.NewConflictError(fmt.Sprintf("%s: %v", message, err))
	}
	return apperrors.NewStorageError(message, err)
}

// sequential satisfies Transactor for a store without client-side
// transactions: steps run in order and the first failure stops the chain.
type sequential struct{}

// NewTransactor returns the Supabase transactor
func NewTransactor() repositories.Transactor {
	return sequential{}
}

func (sequential) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

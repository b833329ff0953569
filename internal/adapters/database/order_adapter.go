package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/riii-services/backend/internal/domain/entities"
	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

const ordersTable = "orders"

var orderColumns = []interface{}{
	"id", "userid", "serviceid", "status", "customer_name", "email", "phone",
	"address", "date", "time", "total", "created_at",
}

// OrderAdapter implements the OrderRepository interface
type OrderAdapter struct {
	store
}

// NewOrderAdapter creates a new order adapter
func NewOrderAdapter(client *postgres.Client) repositories.OrderRepository {
	return &OrderAdapter{store{client: client}}
}

// Create inserts an order; the database assigns id and created_at
func (a *OrderAdapter) Create(ctx context.Context, order *entities.Order) error {
	record := goqu.Record{
		"userid":        order.UserID,
		"serviceid":     order.ServiceID,
		"status":        order.Status,
		"customer_name": order.CustomerName,
		"email":         order.Email,
		"phone":         order.Phone,
		"address":       order.Address,
		"date":          order.Date,
		"time":          order.Time,
		"total":         order.Total,
	}

	ds := dialect.Insert(ordersTable).Rows(record).Returning(orderColumns...)
	if err := a.get(ctx, order, ds); err != nil {
		return storeError("failed to create order", err)
	}
	return nil
}

// List retrieves orders, newest first
func (a *OrderAdapter) List(ctx context.Context) ([]*entities.Order, error) {
	ds := dialect.From(ordersTable).Select(orderColumns...).Order(goqu.I("created_at").Desc())

	orders := []*entities.Order{}
	if err := a.selectAll(ctx, &orders, ds); err != nil {
		return nil, storeError("failed to list orders", err)
	}
	return orders, nil
}

// Update applies changes to an order
func (a *OrderAdapter) Update(ctx context.Context, id string, changes map[string]interface{}) (*entities.Order, error) {
	order := &entities.Order{}
	ds := dialect.Update(ordersTable).
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Returning(orderColumns...)
	if err := a.get(ctx, order, ds); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("order with id %s not found", id), "failed to update order")
	}
	return order, nil
}

// Delete deletes an order by ID
func (a *OrderAdapter) Delete(ctx context.Context, id string) error {
	rows, err := a.exec(ctx, dialect.Delete(ordersTable).Where(goqu.Ex{"id": id}))
	if err != nil {
		return storeError("failed to delete order", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return nil
}

package entities

import (
	"time"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is one of the five known statuses
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order represents a booking of a service
type Order struct {
	ID           string      `json:"id" db:"id"`
	UserID       string      `json:"userid" db:"userid"`
	ServiceID    string      `json:"serviceid" db:"serviceid"`
	Status       OrderStatus `json:"status" db:"status"`
	CustomerName string      `json:"customer_name" db:"customer_name"`
	Email        string      `json:"email" db:"email"`
	Phone        string      `json:"phone" db:"phone"`
	Address      string      `json:"address" db:"address"`
	Date         string      `json:"date" db:"date"`
	Time         string      `json:"time" db:"time"`
	Total        float64     `json:"total" db:"total"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// OrderDraft is the caller-supplied input for creating an order. Pointer and
// empty-string fields are treated as missing.
type OrderDraft struct {
	UserID       string   `json:"userid"`
	ServiceID    string   `json:"serviceid"`
	Status       string   `json:"status"`
	CustomerName string   `json:"customer_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Total        *float64 `json:"total"`
}

// MissingFields returns every absent required field in declaration order
func (d *OrderDraft) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"userid", d.UserID},
		{"serviceid", d.ServiceID},
		{"status", d.Status},
		{"customer_name", d.CustomerName},
		{"email", d.Email},
		{"phone", d.Phone},
		{"address", d.Address},
		{"date", d.Date},
		{"time", d.Time},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if d.Total == nil {
		missing = append(missing, "total")
	}
	return missing
}

// OrderPatch holds the fields an admin may change on an order
type OrderPatch struct {
	UserID       *string  `json:"userid"`
	ServiceID    *string  `json:"serviceid"`
	Status       *string  `json:"status"`
	CustomerName *string  `json:"customer_name"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	Address      *string  `json:"address"`
	Date         *string  `json:"date"`
	Time         *string  `json:"time"`
	Total        *float64 `json:"total"`
}

// Changes returns the set fields keyed by column name
func (p *OrderPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setString(changes, "userid", p.UserID)
	setString(changes, "serviceid", p.ServiceID)
	setString(changes, "status", p.Status)
	setString(changes, "customer_name", p.CustomerName)
	setString(changes, "email", p.Email)
	setString(changes, "phone", p.Phone)
	setString(changes, "address", p.Address)
	setString(changes, "date", p.Date)
	setString(changes, "time", p.Time)
	if p.Total != nil {
		changes["total"] = *p.Total
	}
	return changes
}

// OrderUpdateResult is an updated order plus the outcome of the best-effort
// confirmation email. The email fields exist only on this response.
type OrderUpdateResult struct {
	*Order
	EmailSent  bool    `json:"emailSent"`
	EmailError *string `json:"emailError"`
}

func setString(changes map[string]interface{}, column string, value *string) {
	if value != nil {
		changes[column] = *value
	}
}

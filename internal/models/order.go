package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle stage of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the known status values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// OrderItem is a snapshot of one purchased line. The unit price is captured
// at order time so later menu edits do not alter historical orders.
type OrderItem struct {
	ItemID    int     `json:"id" db:"item_id"`
	Name      string  `json:"name" db:"name"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
}

// Order is the central entity of the platform.
type Order struct {
	ID            int64       `json:"id" db:"id"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	TableNumber   int         `json:"table_number" db:"table_number"`
	Items         []OrderItem `json:"items"`
	IsPriority    bool        `json:"is_priority" db:"is_priority"`
	Total         float64     `json:"total" db:"total"`
	Status        OrderStatus `json:"status" db:"status"`
	OrderTime     time.Time   `json:"order_time" db:"order_time"`
	EstimatedTime int         `json:"estimated_time" db:"estimated_time"`
	CompletedTime *time.Time  `json:"completed_time,omitempty" db:"completed_time"`
}

// CheckoutItem is one cart line at checkout. PrepTime is the per-item
// preparation time in minutes, already resolved from the menu by the caller;
// zero means the item carries no prep time of its own.
type CheckoutItem struct {
	ItemID    int     `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	PrepTime  int     `json:"prep_time,omitempty"`
}

// CheckoutRequest represents the request to convert a cart into an order.
type CheckoutRequest struct {
	CustomerName string         `json:"customer_name"`
	TableNumber  int            `json:"table_number"`
	IsPriority   bool           `json:"is_priority"`
	Items        []CheckoutItem `json:"items"`
}

// UpdateStatusRequest represents a staff request to advance an order.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// Validate checks the static checkout preconditions. Settings-dependent
// checks (table range) are performed by the checkout service.
func (req *CheckoutRequest) Validate() error {
	if req.CustomerName == "" {
		return &ValidationError{Field: "customer_name", Reason: "is required"}
	}
	if len(req.CustomerName) > 100 {
		return &ValidationError{Field: "customer_name", Reason: "must not exceed 100 characters"}
	}
	if req.TableNumber < 1 {
		return &ValidationError{Field: "table_number", Reason: "must be at least 1"}
	}
	if len(req.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "cart cannot be empty"}
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.Name == "" {
			return &ValidationError{Field: prefix + ".name", Reason: "is required"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: prefix + ".quantity", Reason: "must be at least 1"}
		}
		if item.UnitPrice < 0 {
			return &ValidationError{Field: prefix + ".unit_price", Reason: "must not be negative"}
		}
		if item.PrepTime < 0 {
			return &ValidationError{Field: prefix + ".prep_time", Reason: "must not be negative"}
		}
	}
	return nil
}

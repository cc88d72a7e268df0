package models

import (
	"encoding/json"
	"time"
)

// NotificationKind names a category of announced events. The value matches
// the corresponding toggle key in Settings.Notifications.
type NotificationKind string

const (
	KindNewOrders       NotificationKind = "newOrders"
	KindOrderReady      NotificationKind = "orderReady"
	KindLowStock        NotificationKind = "lowStock"
	KindCustomerReviews NotificationKind = "customerReviews"
	KindDailyReport     NotificationKind = "dailyReport"
	KindWeeklyReport    NotificationKind = "weeklyReport"
	KindSystemUpdates   NotificationKind = "systemUpdates"
)

// NewOrderEvent announces a freshly persisted order.
type NewOrderEvent struct {
	OrderID      int64   `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
	ItemCount    int     `json:"item_count"`
	IsPriority   bool    `json:"is_priority"`
}

// OrderReadyEvent announces an order entering the ready stage.
type OrderReadyEvent struct {
	OrderID      int64  `json:"order_id"`
	CustomerName string `json:"customer_name"`
	TableNumber  int    `json:"table_number"`
}

// LowStockEvent announces an inventory item falling below its minimum.
type LowStockEvent struct {
	Item         string `json:"item"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
}

// ReviewEvent announces a new customer review.
type ReviewEvent struct {
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

// ReportEvent carries an aggregated daily or weekly sales report.
type ReportEvent struct {
	Period         string    `json:"period"` // "daily" or "weekly"
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	TotalOrders    int       `json:"total_orders"`
	TotalRevenue   float64   `json:"total_revenue"`
	AvgPrepMinutes float64   `json:"avg_prep_minutes,omitempty"`
	GrowthPercent  *float64  `json:"growth_percent,omitempty"`
}

// SystemUpdateEvent announces scheduled maintenance.
type SystemUpdateEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// NotificationEnvelope is the wire format published to the notifications
// fanout exchange.
type NotificationEnvelope struct {
	Kind      NotificationKind `json:"kind"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   json.RawMessage  `json:"payload"`
}

// KitchenTicket is the message routed to kitchen display screens when an
// order is placed.
type KitchenTicket struct {
	OrderID       int64       `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	TableNumber   int         `json:"table_number"`
	Items         []OrderItem `json:"items"`
	IsPriority    bool        `json:"is_priority"`
	EstimatedTime int         `json:"estimated_time"`
	OrderTime     time.Time   `json:"order_time"`
}

// RoutingKey returns the topic routing key for a kitchen ticket. Priority
// orders get their own key so displays can subscribe selectively.
func (t *KitchenTicket) RoutingKey() string {
	if t.IsPriority {
		return "kitchen.priority"
	}
	return "kitchen.normal"
}

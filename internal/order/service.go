package order

import (
	"context"
	"time"

	"neonfood/internal/logger"
	"neonfood/internal/metrics"
	"neonfood/internal/models"
	"neonfood/internal/pricing"
)

// SettingsSource supplies the current settings snapshot.
type SettingsSource interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// Notifier announces lifecycle events. Dispatch never fails; delivery
// problems stay inside the dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, kind models.NotificationKind, payload any)
}

// TicketPublisher routes a new order to the kitchen. May be nil when the
// service runs without a message broker.
type TicketPublisher interface {
	PublishTicket(ctx context.Context, ticket *models.KitchenTicket) error
}

// Service is the checkout orchestrator: it ties pricing, persistence, the
// state machine and notification dispatch together.
type Service struct {
	store    Store
	settings SettingsSource
	notifier Notifier
	tickets  TicketPublisher
	logger   *logger.Logger
	metrics  *metrics.Registry
}

// NewService creates the checkout service. tickets and reg may be nil.
func NewService(store Store, settings SettingsSource, notifier Notifier, tickets TicketPublisher, log *logger.Logger, reg *metrics.Registry) *Service {
	return &Service{
		store:    store,
		settings: settings,
		notifier: notifier,
		tickets:  tickets,
		logger:   log,
		metrics:  reg,
	}
}

// Checkout converts a cart into a persisted order. Validation failures are
// reported before any persistence attempt; an order that was not durably
// stored never triggers a new-order announcement.
func (s *Service) Checkout(ctx context.Context, req *models.CheckoutRequest, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.TableNumber > settings.MaxTables {
		return nil, &models.ValidationError{Field: "table_number", Reason: "exceeds the configured table count"}
	}

	result := pricing.Compute(req.Items, req.IsPriority, settings)

	order := &models.Order{
		CustomerName:  req.CustomerName,
		TableNumber:   req.TableNumber,
		Items:         snapshotItems(req.Items),
		IsPriority:    req.IsPriority,
		Total:         result.Total,
		Status:        models.StatusPending,
		EstimatedTime: result.DeliveryTime,
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}

	s.logger.Info("order_created", requestID, "Order persisted", map[string]any{
		"order_id":    order.ID,
		"total":       order.Total,
		"is_priority": order.IsPriority,
	})

	s.notifier.Dispatch(ctx, models.KindNewOrders, &models.NewOrderEvent{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		ItemCount:    len(order.Items),
		IsPriority:   order.IsPriority,
	})

	s.publishTicket(ctx, order, requestID)

	return order, nil
}

// publishTicket hands the order to the kitchen topic. Best-effort: a broker
// outage must not fail a checkout that is already durable.
func (s *Service) publishTicket(ctx context.Context, order *models.Order, requestID string) {
	if s.tickets == nil {
		return
	}

	ticket := &models.KitchenTicket{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		TableNumber:   order.TableNumber,
		Items:         order.Items,
		IsPriority:    order.IsPriority,
		EstimatedTime: order.EstimatedTime,
		OrderTime:     order.OrderTime,
	}
	if err := s.tickets.PublishTicket(ctx, ticket); err != nil {
		s.logger.Error("ticket_publish_failed", requestID, "Failed to publish kitchen ticket", err, map[string]any{
			"order_id": order.ID,
		})
	}
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.store.List(ctx)
}

// Get returns a single order by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.store.Get(ctx, id)
}

// UpdateStatus advances an order to the requested target status. Only the
// immediate successor is accepted; entering ready raises an order-ready
// notification and entering completed stamps the completion time.
func (s *Service) UpdateStatus(ctx context.Context, id int64, target models.OrderStatus, requestID string) (*models.Order, error) {
	if !target.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: "is not a known status"}
	}

	order, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(order.Status, target); err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if target == models.StatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.store.UpdateStatus(ctx, id, order.Status, target, completedAt); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = target
	order.CompletedTime = completedAt

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(target)).Inc()
	}

	s.logger.Info("order_status_updated", requestID, "Order status advanced", map[string]any{
		"order_id": order.ID,
		"from":     string(previous),
		"to":       string(target),
	})

	if target == models.StatusReady {
		s.notifier.Dispatch(ctx, models.KindOrderReady, &models.OrderReadyEvent{
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
			TableNumber:  order.TableNumber,
		})
	}

	return order, nil
}

// Delete removes an order outside the state machine.
func (s *Service) Delete(ctx context.Context, id int64, requestID string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order_deleted", requestID, "Order removed", map[string]any{"order_id": id})
	return nil
}

func snapshotItems(items []models.CheckoutItem) []models.OrderItem {
	snapshot := make([]models.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = models.OrderItem{
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return snapshot
}

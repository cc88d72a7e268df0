package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

type fakeStore struct {
	orders  map[int64]*models.Order
	nextID  int64
	failOn  string
	updates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[int64]*models.Order), nextID: 1}
}

func (f *fakeStore) Create(ctx context.Context, o *models.Order) error {
	if f.failOn == "create" {
		return &models.PersistenceError{Op: "order create", Err: errors.New("disk full")}
	}
	o.ID = f.nextID
	f.nextID++
	o.OrderTime = time.Now().UTC()
	stored := *o
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus, completedAt *time.Time) error {
	if f.failOn == "update" {
		return &models.PersistenceError{Op: "order status update", Err: errors.New("connection reset")}
	}
	o, ok := f.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	if o.Status != from {
		return &models.TransitionError{From: o.Status, To: to}
	}
	f.updates++
	o.Status = to
	o.CompletedTime = completedAt
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return models.ErrOrderNotFound
	}
	delete(f.orders, id)
	return nil
}

type fakeSettings struct {
	settings *models.Settings
	err      error
}

func (f *fakeSettings) Get(ctx context.Context) (*models.Settings, error) {
	return f.settings, f.err
}

type fakeNotifier struct {
	dispatched []models.NotificationKind
	payloads   []any
}

func (f *fakeNotifier) Dispatch(ctx context.Context, kind models.NotificationKind, payload any) {
	f.dispatched = append(f.dispatched, kind)
	f.payloads = append(f.payloads, payload)
}

type fakeTickets struct {
	published []*models.KitchenTicket
	err       error
}

func (f *fakeTickets) PublishTicket(ctx context.Context, t *models.KitchenTicket) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, t)
	return nil
}

func newTestService(store Store, notifier *fakeNotifier, tickets TicketPublisher) *Service {
	return NewService(store, &fakeSettings{settings: models.DefaultSettings()}, notifier, tickets, logger.New("test"), nil)
}

func validCheckout() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		CustomerName: "Ada Lovelace",
		TableNumber:  4,
		Items: []models.CheckoutItem{
			{ItemID: 1, Name: "Neon Burger", Quantity: 2, UnitPrice: 12.99, PrepTime: 15},
			{ItemID: 2, Name: "Fries", Quantity: 1, UnitPrice: 2.99, PrepTime: 5},
		},
	}
}

func TestCheckout_PersistsAndNotifies(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	tickets := &fakeTickets{}
	svc := newTestService(store, notifier, tickets)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)

	assert.EqualValues(t, 1, order.ID, "store-assigned id")
	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 34.14, order.Total, 0.001)
	assert.Equal(t, 15, order.EstimatedTime)
	assert.Nil(t, order.CompletedTime)
	assert.False(t, order.OrderTime.IsZero())

	require.Equal(t, []models.NotificationKind{models.KindNewOrders}, notifier.dispatched)
	event := notifier.payloads[0].(*models.NewOrderEvent)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, 2, event.ItemCount)

	require.Len(t, tickets.published, 1)
	assert.Equal(t, order.ID, tickets.published[0].OrderID)
}

func TestCheckout_PriorityPricing(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)

	req := validCheckout()
	req.IsPriority = true

	order, err := svc.Checkout(context.Background(), req, "req-1")
	require.NoError(t, err)

	assert.InDelta(t, 39.56, order.Total, 0.001)
	assert.Equal(t, 8, order.EstimatedTime)
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)

	req := validCheckout()
	req.Items = nil

	_, err := svc.Checkout(context.Background(), req, "req-1")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.Empty(t, store.orders, "no order persisted")
	assert.Empty(t, notifier.dispatched, "no notification dispatched")
}

func TestCheckout_TableNumberBeyondConfiguredRange(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)

	req := validCheckout()
	req.TableNumber = 21 // defaults allow 20 tables

	_, err := svc.Checkout(context.Background(), req, "req-1")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "table_number", validationErr.Field)
}

func TestCheckout_PersistenceFailureSuppressesNotification(t *testing.T) {
	store := newFakeStore()
	store.failOn = "create"
	notifier := &fakeNotifier{}
	tickets := &fakeTickets{}
	svc := newTestService(store, notifier, tickets)

	_, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	var persistenceErr *models.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)

	assert.Empty(t, notifier.dispatched, "unstored order must not be announced")
	assert.Empty(t, tickets.published)
}

func TestCheckout_BrokerOutageDoesNotFailCheckout(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	tickets := &fakeTickets{err: errors.New("broker unreachable")}
	svc := newTestService(store, notifier, tickets)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestUpdateStatus_FullLifecycle(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)

	order, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusPreparing, "req-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.Status)
	assert.Nil(t, order.CompletedTime)

	order, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusReady, "req-3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, order.Status)

	order, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusCompleted, "req-4")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, order.Status)
	require.NotNil(t, order.CompletedTime, "completion time stamped on entering completed")

	// orderReady fired exactly once, on entering ready, not re-sent later.
	assert.Equal(t, []models.NotificationKind{models.KindNewOrders, models.KindOrderReady}, notifier.dispatched)
}

func TestUpdateStatus_SkipStageRejected(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusReady, "req-2")
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	stored, err := store.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status, "order unchanged after rejected transition")
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, nil)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatus("burned"), "req-2")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{}, nil)

	_, err := svc.UpdateStatus(context.Background(), 404, models.StatusPreparing, "req-1")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestUpdateStatus_ConcurrentWriterDetected(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)

	// A concurrent staff member advances the order between our read and write;
	// the CAS update then sees a stale expected status and rejects.
	store.orders[order.ID].Status = models.StatusPreparing

	err = store.UpdateStatus(context.Background(), order.ID, models.StatusPending, models.StatusPreparing, nil)
	require.ErrorIs(t, err, models.ErrInvalidTransition, "stale expected status is rejected by the CAS write")
	assert.Equal(t, 0, store.updates)
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{}, nil)

	order, err := svc.Checkout(context.Background(), validCheckout(), "req-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID, "req-2"))
	assert.ErrorIs(t, svc.Delete(context.Background(), order.ID, "req-3"), models.ErrOrderNotFound)
}

package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"neonfood/internal/database"
	"neonfood/internal/models"
)

// Store persists orders. Implementations must assign collision-free ids at
// creation and apply status updates with compare-and-swap semantics.
type Store interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	// UpdateStatus moves the order from the expected current status to the
	// target. A concurrent writer that changed the status first causes a
	// TransitionError instead of a silent lost update.
	UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// PostgresStore is the pgx-backed order store.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates an order store over the shared pool.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the order and its items in one transaction, filling in the
// store-assigned id and order time.
func (s *PostgresStore) Create(ctx context.Context, o *models.Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &models.PersistenceError{Op: "order create", Err: err}
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		o.CustomerName, o.TableNumber, o.IsPriority, o.Total, o.Status, o.EstimatedTime,
	).Scan(&o.ID, &o.OrderTime)
	if err != nil {
		return &models.PersistenceError{Op: "order insert", Err: err}
	}

	for _, item := range o.Items {
		_, err := tx.Exec(ctx, database.InsertOrderItemSQL,
			o.ID, item.ItemID, item.Name, item.Quantity, item.UnitPrice)
		if err != nil {
			return &models.PersistenceError{Op: "order item insert", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &models.PersistenceError{Op: "order commit", Err: err}
	}
	return nil
}

// Get loads a single order with its items.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(ctx, database.GetOrderSQL, id).Scan(
		&o.ID, &o.CustomerName, &o.TableNumber, &o.IsPriority, &o.Total,
		&o.Status, &o.OrderTime, &o.EstimatedTime, &o.CompletedTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "order get", Err: err}
	}

	rows, err := s.db.Query(ctx, database.GetOrderItemsSQL, id)
	if err != nil {
		return nil, &models.PersistenceError{Op: "order items get", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, &models.PersistenceError{Op: "order item scan", Err: err}
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Op: "order items get", Err: err}
	}

	return &o, nil
}

// List returns all orders newest-first, items included.
func (s *PostgresStore) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, database.ListOrdersSQL)
	if err != nil {
		return nil, &models.PersistenceError{Op: "order list", Err: err}
	}
	defer rows.Close()

	var orders []models.Order
	index := make(map[int64]int)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerName, &o.TableNumber, &o.IsPriority, &o.Total,
			&o.Status, &o.OrderTime, &o.EstimatedTime, &o.CompletedTime,
		); err != nil {
			return nil, &models.PersistenceError{Op: "order scan", Err: err}
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Op: "order list", Err: err}
	}

	itemRows, err := s.db.Query(ctx, database.ListOrderItemsSQL)
	if err != nil {
		return nil, &models.PersistenceError{Op: "order items list", Err: err}
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item models.OrderItem
		if err := itemRows.Scan(&orderID, &item.ItemID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, &models.PersistenceError{Op: "order item scan", Err: err}
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, &models.PersistenceError{Op: "order items list", Err: err}
	}

	return orders, nil
}

// UpdateStatus applies a compare-and-swap status update. When the row no
// longer carries the expected status the returned error reflects the status
// a concurrent writer left behind.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus, completedAt *time.Time) error {
	var affected int64
	var err error
	if completedAt != nil {
		affected, err = s.db.Exec(ctx, database.CompleteOrderCASSQL, to, *completedAt, id, from)
	} else {
		affected, err = s.db.Exec(ctx, database.UpdateOrderStatusCASSQL, to, id, from)
	}
	if err != nil {
		return &models.PersistenceError{Op: "order status update", Err: err}
	}
	if affected > 0 {
		return nil
	}

	var current models.OrderStatus
	err = s.db.QueryRow(ctx, database.GetOrderStatusSQL, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrOrderNotFound
	}
	if err != nil {
		return &models.PersistenceError{Op: "order status read", Err: err}
	}
	return &models.TransitionError{From: current, To: to}
}

// Delete removes an order and its items (administrative, bypasses the state
// machine).
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	affected, err := s.db.Exec(ctx, database.DeleteOrderSQL, id)
	if err != nil {
		return &models.PersistenceError{Op: "order delete", Err: err}
	}
	if affected == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

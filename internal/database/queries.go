package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (customer_name, table_number, is_priority, total, status, estimated_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, order_time`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, item_id, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`

	GetOrderSQL = `
		SELECT id, customer_name, table_number, is_priority, total, status,
		       order_time, estimated_time, completed_time
		FROM orders WHERE id = $1`

	GetOrderItemsSQL = `
		SELECT item_id, name, quantity, unit_price
		FROM order_items WHERE order_id = $1
		ORDER BY id ASC`

	ListOrdersSQL = `
		SELECT id, customer_name, table_number, is_priority, total, status,
		       order_time, estimated_time, completed_time
		FROM orders
		ORDER BY order_time DESC`

	ListOrderItemsSQL = `
		SELECT order_id, item_id, name, quantity, unit_price
		FROM order_items
		ORDER BY order_id, id ASC`

	// Compare-and-swap on status: the update applies only when the stored
	// status still matches the transition's expected source.
	UpdateOrderStatusCASSQL = `
		UPDATE orders SET status = $1
		WHERE id = $2 AND status = $3`

	CompleteOrderCASSQL = `
		UPDATE orders SET status = $1, completed_time = $2
		WHERE id = $3 AND status = $4`

	GetOrderStatusSQL = `
		SELECT status FROM orders WHERE id = $1`

	DeleteOrderSQL = `
		DELETE FROM orders WHERE id = $1`
)

// Settings queries
const (
	GetSettingsSQL = `
		SELECT data FROM settings WHERE id = 1`

	// Lazy creation: the insert loses the race to a concurrent creator and
	// the winner's document is returned either way.
	InsertSettingsSQL = `
		INSERT INTO settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING`

	SaveSettingsSQL = `
		INSERT INTO settings (id, data, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
)

// Report queries
const (
	ReportWindowSQL = `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(estimated_time), 0)
		FROM orders
		WHERE order_time >= $1 AND order_time < $2`
)

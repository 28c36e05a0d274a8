package database

// Order session queries
const (
	InsertOrderSessionSQL = `
		INSERT INTO order_sessions (table_id, server_id, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id, status, is_paid, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, item_id, quantity, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status`

	GetOrderSessionSQL = `
		SELECT id, table_id, server_id, status, is_paid, total_amount::text, created_at, closed_at
		FROM order_sessions WHERE id = $1`

	ListOrderSessionsSQL = `
		SELECT id, table_id, server_id, status, is_paid, total_amount::text, created_at, closed_at
		FROM order_sessions
		ORDER BY id
		OFFSET $1 LIMIT $2`

	GetOrderItemsSQL = `
		SELECT id, order_id, item_id, quantity, note, status
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	GetOrderItemSQL = `
		SELECT id, order_id, item_id, quantity, note, status
		FROM order_items
		WHERE order_id = $1 AND id = $2`

	UpdateOrderSessionSQL = `
		UPDATE order_sessions
		SET status = $2, is_paid = $3, total_amount = $4, closed_at = $5
		WHERE id = $1`

	UpdateOrderTotalSQL = `
		UPDATE order_sessions SET total_amount = $2 WHERE id = $1`

	UpdateOrderItemSQL = `
		UPDATE order_items
		SET quantity = $3, note = $4, status = $5
		WHERE order_id = $1 AND id = $2`

	CancelOrderSessionSQL = `
		UPDATE order_sessions
		SET status = 'canceled', closed_at = NOW()
		WHERE id = $1 AND status = 'opening'`

	CancelOpenOrderItemsSQL = `
		UPDATE order_items
		SET status = 'canceled'
		WHERE order_id = $1 AND status IN ('pending', 'received')`
)

// Staff queries
const (
	InsertStaffSQL = `
		INSERT INTO staffs (name, role, username, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	GetStaffByUsernameSQL = `
		SELECT id, name, role, username, hashed_password
		FROM staffs WHERE username = $1`

	ListStaffsSQL = `
		SELECT id, name, role, username
		FROM staffs
		ORDER BY id
		OFFSET $1 LIMIT $2`
)

// Menu queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, price, is_available, img_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	GetMenuItemSQL = `
		SELECT id, name, price::text, is_available, img_path
		FROM menu_items WHERE id = $1`

	ListMenuItemsSQL = `
		SELECT id, name, price::text, is_available, img_path
		FROM menu_items
		ORDER BY id
		OFFSET $1 LIMIT $2`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $2, price = $3, is_available = $4
		WHERE id = $1`
)

// Table queries
const (
	InsertTableSQL = `
		INSERT INTO tables DEFAULT VALUES
		RETURNING id, is_available`

	ListTablesSQL = `
		SELECT id, is_available FROM tables ORDER BY id`

	UpdateTableAvailabilitySQL = `
		UPDATE tables SET is_available = $2 WHERE id = $1`
)

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-platform/internal/database"
	"restaurant-platform/internal/models"
)

// Repository is the persistence boundary of the order service.
type Repository interface {
	CreateOrder(ctx context.Context, tableID, serverID int64, items []models.OrderItemCreate, total decimal.Decimal) (*models.OrderSession, error)
	GetOrder(ctx context.Context, orderID int64) (*models.OrderSession, error)
	ListOrders(ctx context.Context, offset, limit int) ([]models.OrderSession, error)
	AddItems(ctx context.Context, orderID int64, items []models.OrderItemCreate) ([]models.OrderItem, error)
	UpdateOrder(ctx context.Context, order *models.OrderSession) error
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	GetItem(ctx context.Context, orderID, itemID int64) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, item *models.OrderItem) error
	CancelOrder(ctx context.Context, orderID int64) error
	Ping(ctx context.Context) error
}

// PostgresRepository implements Repository on a pgx pool.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates an order repository on the given pool.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrder persists the session and all its items in one
// transaction, so partial item insertion is never observable.
func (r *PostgresRepository) CreateOrder(ctx context.Context, tableID, serverID int64, items []models.OrderItemCreate, total decimal.Decimal) (*models.OrderSession, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order := &models.OrderSession{
		TableID:     tableID,
		ServerID:    serverID,
		TotalAmount: total,
	}

	err = tx.QueryRow(ctx, database.InsertOrderSessionSQL, tableID, serverID, total.String()).
		Scan(&order.ID, &order.Status, &order.IsPaid, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order session: %w", err)
	}

	for _, item := range items {
		row := models.OrderItem{
			OrderID:  order.ID,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Note:     item.Note,
		}
		err = tx.QueryRow(ctx, database.InsertOrderItemSQL, order.ID, item.ItemID, item.Quantity, item.Note).
			Scan(&row.ID, &row.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		order.OrderItems = append(order.OrderItems, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return order, nil
}

// GetOrder loads a session with its items.
func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int64) (*models.OrderSession, error) {
	order, err := r.scanOrder(r.db.QueryRow(ctx, database.GetOrderSessionSQL, orderID))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.OrderItems = items

	return order, nil
}

// ListOrders returns sessions with their items, paginated.
func (r *PostgresRepository) ListOrders(ctx context.Context, offset, limit int) ([]models.OrderSession, error) {
	rows, err := r.db.Query(ctx, database.ListOrderSessionsSQL, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderSession
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].OrderItems = items
	}

	return orders, nil
}

// AddItems appends items to an existing session in one transaction.
func (r *PostgresRepository) AddItems(ctx context.Context, orderID int64, items []models.OrderItemCreate) ([]models.OrderItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var added []models.OrderItem
	for _, item := range items {
		row := models.OrderItem{
			OrderID:  orderID,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Note:     item.Note,
		}
		err = tx.QueryRow(ctx, database.InsertOrderItemSQL, orderID, item.ItemID, item.Quantity, item.Note).
			Scan(&row.ID, &row.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		added = append(added, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit items: %w", err)
	}

	return added, nil
}

// UpdateOrder writes the mutable session fields.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, order *models.OrderSession) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateOrderSessionSQL,
		order.ID, order.Status, order.IsPaid, order.TotalAmount.String(), order.ClosedAt)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateTotal writes only the session total.
func (r *PostgresRepository) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateOrderTotalSQL, orderID, total.String())
	if err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetItem loads one item scoped under its session.
func (r *PostgresRepository) GetItem(ctx context.Context, orderID, itemID int64) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	err := r.db.QueryRow(ctx, database.GetOrderItemSQL, orderID, itemID).
		Scan(&item.ID, &item.OrderID, &item.ItemID, &item.Quantity, &item.Note, &item.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}
	return item, nil
}

// UpdateItem writes the mutable item fields.
func (r *PostgresRepository) UpdateItem(ctx context.Context, item *models.OrderItem) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateOrderItemSQL,
		item.OrderID, item.ID, item.Quantity, item.Note, item.Status)
	if err != nil {
		return fmt.Errorf("failed to update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CancelOrder transitions an opening session to canceled and cascades
// every pending or received item, atomically.
func (r *PostgresRepository) CancelOrder(ctx context.Context, orderID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, database.CancelOrderSessionSQL, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotOpen
	}

	if _, err := tx.Exec(ctx, database.CancelOpenOrderItemsSQL, orderID); err != nil {
		return fmt.Errorf("failed to cancel order items: %w", err)
	}

	return tx.Commit(ctx)
}

// Ping tests the database connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepository) scanOrder(row pgx.Row) (*models.OrderSession, error) {
	order := &models.OrderSession{}
	var total string

	err := row.Scan(&order.ID, &order.TableID, &order.ServerID, &order.Status,
		&order.IsPaid, &total, &order.CreatedAt, &order.ClosedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount: %w", err)
	}

	return order, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ItemID, &item.Quantity, &item.Note, &item.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

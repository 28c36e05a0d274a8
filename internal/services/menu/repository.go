package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-platform/internal/database"
	"restaurant-platform/internal/models"
)

// Repository defines menu persistence operations.
type Repository interface {
	CreateItem(ctx context.Context, name string, price decimal.Decimal, isAvailable bool, imgPath string) (*models.MenuItem, error)
	GetItem(ctx context.Context, itemID int64) (*models.MenuItem, error)
	ListItems(ctx context.Context, offset, limit int) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	Ping(ctx context.Context) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new PostgreSQL menu repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateItem(ctx context.Context, name string, price decimal.Decimal, isAvailable bool, imgPath string) (*models.MenuItem, error) {
	item := &models.MenuItem{
		Name:        name,
		Price:       price,
		IsAvailable: isAvailable,
		ImgPath:     imgPath,
	}
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL, name, price.String(), isAvailable, imgPath).
		Scan(&item.ID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) GetItem(ctx context.Context, itemID int64) (*models.MenuItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, database.GetMenuItemSQL, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, offset, limit int) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.Exec(ctx, database.UpdateMenuItemSQL, item.ID, item.Name, item.Price.String(), item.IsAvailable)
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanItem(row pgx.Row) (*models.MenuItem, error) {
	var item models.MenuItem
	var price string
	if err := row.Scan(&item.ID, &item.Name, &price, &item.IsAvailable, &item.ImgPath); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	item.Price = parsed
	return &item, nil
}

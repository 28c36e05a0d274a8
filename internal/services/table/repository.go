package table

import (
	"context"

	"restaurant-platform/internal/database"
	"restaurant-platform/internal/models"
)

// Repository defines table persistence operations.
type Repository interface {
	CreateTable(ctx context.Context) (*models.Table, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	SetAvailability(ctx context.Context, tableID int64, isAvailable bool) error
	Ping(ctx context.Context) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new PostgreSQL table repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTable(ctx context.Context) (*models.Table, error) {
	var table models.Table
	err := r.db.QueryRow(ctx, database.InsertTableSQL).Scan(&table.ID, &table.IsAvailable)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *PostgresRepository) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := r.db.Query(ctx, database.ListTablesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var table models.Table
		if err := rows.Scan(&table.ID, &table.IsAvailable); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *PostgresRepository) SetAvailability(ctx context.Context, tableID int64, isAvailable bool) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateTableAvailabilitySQL, tableID, isAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

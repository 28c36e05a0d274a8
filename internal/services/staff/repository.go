package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"restaurant-platform/internal/database"
	"restaurant-platform/internal/models"
)

// Repository defines staff persistence operations.
type Repository interface {
	CreateStaff(ctx context.Context, name string, role models.StaffRole, username, hashedPassword string) (*models.Staff, error)
	GetByUsername(ctx context.Context, username string) (*models.Staff, error)
	ListStaffs(ctx context.Context, offset, limit int) ([]models.Staff, error)
	Ping(ctx context.Context) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new PostgreSQL staff repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateStaff(ctx context.Context, name string, role models.StaffRole, username, hashedPassword string) (*models.Staff, error) {
	staff := &models.Staff{
		Name:     name,
		Role:     role,
		Username: username,
	}
	err := r.db.QueryRow(ctx, database.InsertStaffSQL, name, string(role), username, hashedPassword).
		Scan(&staff.ID)
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.QueryRow(ctx, database.GetStaffByUsernameSQL, username).
		Scan(&staff.ID, &staff.Name, &staff.Role, &staff.Username, &staff.HashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func (r *PostgresRepository) ListStaffs(ctx context.Context, offset, limit int) ([]models.Staff, error) {
	rows, err := r.db.Query(ctx, database.ListStaffsSQL, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staffs []models.Staff
	for rows.Next() {
		var staff models.Staff
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.Role, &staff.Username); err != nil {
			return nil, err
		}
		staffs = append(staffs, staff)
	}
	return staffs, rows.Err()
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

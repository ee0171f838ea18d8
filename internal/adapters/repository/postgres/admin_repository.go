package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) ports.AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT id, email, name, created_at FROM admins WHERE lower(email) = lower($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	query := `SELECT id, email, name, created_at FROM admins WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `INSERT INTO admins (email, name) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, admin.Email, admin.Name).Scan(&admin.ID, &admin.CreatedAt)
}

func (r *AdminRepository) scanOne(row *sql.Row) (*domain.Admin, error) {
	admin := &domain.Admin{}
	err := row.Scan(&admin.ID, &admin.Email, &admin.Name, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

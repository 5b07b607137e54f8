package repository

import (
	"context"
	"fmt"
	"time"

	"celebstyle-backend/internal/domains/admin/model"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	adminColumns    = `id, email, name, role, avatar, password_hash, last_login, created_at`
	emailConstraint = "admin_users_email_key"
)

type Repository interface {
	Create(ctx context.Context, admin *model.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, a *model.AdminUser) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_users (`+adminColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Email, a.Name, a.Role, a.Avatar, a.PasswordHash, a.LastLogin, a.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return model.ErrDuplicateEmail.Wrap(err)
		}
		return r.mapError("Create", err)
	}
	return nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE email = $1`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, r.mapError("FindByEmail", err)
	}
	return admin, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE id = $1`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapError("GetByID", err)
	}
	return admin, nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login = $2 WHERE id = $1`, id, at); err != nil {
		return r.mapError("UpdateLastLogin", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, r.mapError("Count", err)
	}
	return n, nil
}

func scanAdmin(row pgx.Row) (*model.AdminUser, error) {
	a := &model.AdminUser{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.Avatar, &a.PasswordHash, &a.LastLogin, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresRepository) mapError(op string, err error) error {
	if database.IsNoRows(err) {
		return model.ErrAdminNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("admin %s: %w", op, err)
}

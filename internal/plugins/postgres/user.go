package postgres

import (
	"context"
	"database/sql"
	"errors"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	exec := getExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, u.ID, u.Email, u.DisplayName, u.PasswordHash, u.IsActive, u.CreatedAt)
	return err
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrInvalidUserID
	}
	u := &domain.User{Email: email}
	query := `
		SELECT id, display_name, password_hash, is_active, created_at
		FROM users WHERE email = $1`
	exec := getExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.DisplayName, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u := &domain.User{ID: id}
	query := `
		SELECT email, display_name, password_hash, is_active, created_at
		FROM users WHERE id = $1`
	exec := getExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, id).
		Scan(&u.Email, &u.DisplayName, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) ListStatuses(ctx context.Context) ([]domain.UserPresence, error) {
	query := `SELECT id, display_name, is_active FROM users ORDER BY display_name`
	exec := getExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []domain.UserPresence
	for rows.Next() {
		var s domain.UserPresence
		if err := rows.Scan(&s.ID, &s.DisplayName, &s.IsActive); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *UserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE users SET is_active = $2 WHERE id = $1`
	exec := getExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

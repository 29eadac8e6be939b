package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, role string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *slog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash, role string) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.Role)
	if err := row.Scan(&u.CreatedAt); err != nil {
		r.logger.Error("failed to create user", "email", email, "error", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`, email)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to load user", "email", email, "error", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		r.logger.Error("failed to check user existence", "email", email, "error", err)
		return false, err
	}
	return exists, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"canteen-counter/internal/model"
)

// staffRepository implements the StaffRepository interface using PostgreSQL.
type staffRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStaffRepository creates a new PostgreSQL-backed staff repository.
func NewStaffRepository(pool *pgxpool.Pool, logger zerolog.Logger) StaffRepository {
	return &staffRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "staff").Logger(),
	}
}

// GetByEmail retrieves a staff user by email.
func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*model.StaffUser, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM staff_users
		WHERE email = $1
	`

	var user model.StaffUser
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("email", email).Msg("failed to query staff user")
		return nil, fmt.Errorf("failed to query staff user: %w", err)
	}

	return &user, nil
}

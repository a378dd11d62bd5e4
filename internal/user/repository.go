package user

import (
	"context"
	"database/sql"
	"errors"

	"medicart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Upsert(ctx context.Context, phoneNumber, name string) (*User, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Upsert relies on the users_phone_number_key constraint, so concurrent
// registrations of one phone number converge on a single row.
func (r *repository) Upsert(ctx context.Context, phoneNumber, name string) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Upsert"),
		zap.String("phone_number", phoneNumber),
	)

	query := `
		INSERT INTO users (phone_number, name)
		VALUES ($1, $2)
		ON CONFLICT (phone_number) DO UPDATE
		SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, phone_number, name, created_at, updated_at
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, phoneNumber, name).
		Scan(&u.ID, &u.PhoneNumber, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		log.Error("db: failed to upsert user", zap.Error(err))
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByPhone(ctx context.Context, phoneNumber string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, phone_number, name, created_at, updated_at FROM users WHERE phone_number = $1",
		phoneNumber,
	).Scan(&u.ID, &u.PhoneNumber, &u.Name, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find user",
			zap.String("layer", "repository"),
			zap.String("phone_number", phoneNumber),
			zap.Error(err),
		)
		return nil, err
	}

	return &u, nil
}

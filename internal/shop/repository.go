package shop

import (
	"context"
	"database/sql"
	"errors"

	"medicart-be/internal/logger"

	"go.uber.org/zap"
)

// Repository is the credential store behind the login gate.
type Repository interface {
	FindByName(ctx context.Context, name string) (*Shop, error)
	Upsert(ctx context.Context, name, passwordHash string) (*Shop, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByName(ctx context.Context, name string) (*Shop, error) {
	var s Shop
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, password_hash, created_at FROM shops WHERE name = $1",
		name,
	).Scan(&s.ID, &s.Name, &s.PasswordHash, &s.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find shop",
			zap.String("layer", "repository"),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	return &s, nil
}

// Upsert creates the shop or rotates its password hash.
func (r *repository) Upsert(ctx context.Context, name, passwordHash string) (*Shop, error) {
	query := `
		INSERT INTO shops (name, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, name, password_hash, created_at
	`

	var s Shop
	err := r.db.QueryRowContext(ctx, query, name, passwordHash).
		Scan(&s.ID, &s.Name, &s.PasswordHash, &s.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to upsert shop",
			zap.String("layer", "repository"),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	return &s, nil
}

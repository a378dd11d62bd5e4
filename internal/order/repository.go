package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"medicart-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context, filter Filter) ([]*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetImage(ctx context.Context, id uuid.UUID, index int) (*Image, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	ToggleStatus(ctx context.Context, id uuid.UUID) (Status, error)
	ReplacePricing(ctx context.Context, id uuid.UUID, items []LineItem, total decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, phone_number, days, customer_name, description, address,
		shop_name, total_price, status, created_at, updated_at`

// Create writes the order and its images in one transaction.
func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, phone_number, days, customer_name, description,
			address, shop_name, total_price, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`,
		o.ID,
		o.PhoneNumber,
		o.Days,
		o.CustomerName,
		o.Description,
		o.Address,
		o.ShopName,
		o.TotalPrice,
		o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, img := range o.Images {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_images (order_id, position, content_type, data)
			VALUES ($1,$2,$3,$4)
		`, o.ID, i, img.ContentType, img.Data)
		if err != nil {
			log.Error("failed to insert order image", zap.Int("position", i), zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	var (
		conds []string
		args  []interface{}
	)
	if filter.PhoneNumber != "" {
		args = append(args, filter.PhoneNumber)
		conds = append(conds, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if filter.ShopName != "" {
		args = append(args, filter.ShopName)
		conds = append(conds, fmt.Sprintf("shop_name = $%d", len(args)))
	}

	query := "SELECT " + orderColumns + " FROM orders"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var (
		orders []*Order
		ids    []string
		byID   = map[uuid.UUID]*Order{}
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID.String())
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []*Order{}, nil
	}

	if err := r.attachImages(ctx, ids, byID); err != nil {
		log.Error("failed to load order images", zap.Error(err))
		return nil, err
	}
	if err := r.attachItems(ctx, ids, byID); err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}

	return orders, nil
}

// GetByID loads the order with its line items. Images are left out; use
// GetImage for those.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []string{id.String()}, map[uuid.UUID]*Order{id: o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetImage(ctx context.Context, id uuid.UUID, index int) (*Image, error) {
	var img Image
	err := r.db.QueryRowContext(ctx,
		"SELECT content_type, data FROM order_images WHERE order_id = $1 AND position = $2",
		id, index,
	).Scan(&img.ContentType, &img.Data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidImage
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// ToggleStatus flips the status in a single statement so concurrent toggles
// never read a stale value.
func (r *repository) ToggleStatus(ctx context.Context, id uuid.UUID) (Status, error) {
	var s Status
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = CASE WHEN status = 'done' THEN 'pending' ELSE 'done' END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING status
	`, id).Scan(&s)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return s, err
}

// ReplacePricing overwrites every line item and the total.
func (r *repository) ReplacePricing(ctx context.Context, id uuid.UUID, items []LineItem, total decimal.Decimal) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ReplacePricing"),
		zap.String("order_id", id.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_price = $1, updated_at = NOW() WHERE id = $2",
		total, id,
	)
	if err != nil {
		log.Error("failed to update total", zap.Error(err))
		return err
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		log.Error("failed to clear items", zap.Error(err))
		return err
	}

	for i, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, name, price)
			VALUES ($1,$2,$3,$4)
		`, id, i, it.Name, it.Price)
		if err != nil {
			log.Error("failed to insert item", zap.Int("position", i), zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{Images: []Image{}, Items: []LineItem{}}
	err := row.Scan(
		&o.ID,
		&o.PhoneNumber,
		&o.Days,
		&o.CustomerName,
		&o.Description,
		&o.Address,
		&o.ShopName,
		&o.TotalPrice,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) attachImages(ctx context.Context, ids []string, byID map[uuid.UUID]*Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, content_type, data
		FROM order_images
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			img     Image
		)
		if err := rows.Scan(&orderID, &img.ContentType, &img.Data); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Images = append(o.Images, img)
		}
	}
	return rows.Err()
}

func (r *repository) attachItems(ctx context.Context, ids []string, byID map[uuid.UUID]*Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, name, price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			it      LineItem
		)
		if err := rows.Scan(&orderID, &it.Name, &it.Price); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

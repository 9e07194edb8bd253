// Package order owns order creation and the stock consistency it implies.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heyireeh/storefront-api/internal/user"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrPaymentRejected = errors.New("payment was not successful")
)

type Repository interface {
	// Create persists the order and debits one unit of stock in a single
	// transaction. When the idempotency key was already used, the original
	// order is returned and nothing is written.
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name, price string
	var stock int
	err = tx.QueryRow(ctx, `
		SELECT name, price::text, stock FROM products WHERE id=$1
	`, o.Product.ProductID).Scan(&name, &price, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// A replayed checkout wins over every later outcome: that attempt already
	// committed, even if its decrement took the last unit of stock.
	existing, err := r.getByKey(ctx, o.IdempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if stock <= 0 {
		return nil, ErrOutOfStock
	}
	if o.PaymentStatus != PaymentSuccess {
		return nil, ErrPaymentRejected
	}

	o.Product.Name = name
	if o.Product.Price == "" {
		o.Product.Price = price
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, product_id, product_name, product_price,
		                    shipping_address, phone_number, status, payment_status,
		                    idempotency_key, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
		ON CONFLICT (idempotency_key) DO NOTHING
	`, o.ID, o.UserID, o.Product.ProductID, o.Product.Name, o.Product.Price,
		o.ShippingAddress, o.PhoneNumber, o.Status, o.PaymentStatus, o.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		// Lost a race against a concurrent replay of the same key.
		_ = tx.Rollback(ctx)
		return r.getByKey(ctx, o.IdempotencyKey)
	}

	// The conditional decrement is the authoritative stock check: concurrent
	// checkouts at stock=1 serialize on this row, the loser affects zero rows
	// and its order insert rolls back with it.
	tag, err = tx.Exec(ctx, `
		UPDATE products SET stock = stock - 1, updated_at = NOW()
		WHERE id=$1 AND stock > 0
	`, o.Product.ProductID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrOutOfStock
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

const orderColumns = `
	o.id, o.user_id, o.product_id::text, o.product_name, o.product_price::text,
	o.shipping_address, o.phone_number, o.status, o.payment_status,
	o.idempotency_key, o.created_at, o.updated_at
`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var productID *string
	if err := row.Scan(&o.ID, &o.UserID, &productID, &o.Product.Name, &o.Product.Price,
		&o.ShippingAddress, &o.PhoneNumber, &o.Status, &o.PaymentStatus,
		&o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if productID != nil {
		o.Product.ProductID = *productID
	}
	return &o, nil
}

func (r *PGRepo) getByKey(ctx context.Context, key string) (*Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.idempotency_key=$1`, key)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	var productID *string
	var p user.Profile
	err := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`, u.id, u.name, u.email
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id=$1
	`, id).Scan(&o.ID, &o.UserID, &productID, &o.Product.Name, &o.Product.Price,
		&o.ShippingAddress, &o.PhoneNumber, &o.Status, &o.PaymentStatus,
		&o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt, &p.ID, &p.Name, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if productID != nil {
		o.Product.ProductID = *productID
	}
	o.User = &p
	return &o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o WHERE o.user_id=$1
		ORDER BY o.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`, u.id, u.name, u.email
		FROM orders o JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var productID *string
		var p user.Profile
		if err := rows.Scan(&o.ID, &o.UserID, &productID, &o.Product.Name, &o.Product.Price,
			&o.ShippingAddress, &o.PhoneNumber, &o.Status, &o.PaymentStatus,
			&o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt, &p.ID, &p.Name, &p.Email); err != nil {
			return nil, err
		}
		if productID != nil {
			o.Product.ProductID = *productID
		}
		o.User = &p
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order from one status to another. The previous status
// is part of the predicate so a stale transition affects zero rows.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package orders

import (
	"context"
	"database/sql"
	"fmt"

	"localfirst-bot/internal/domain"
)

type RepoInterface interface {
	OrderCount(ctx context.Context) (int, error)
	CreateOrderTx(ctx context.Context, order domain.Order) (int, error)
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) RepoInterface { return &Repo{db: db} }

func (r *Repo) OrderCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("get order count: %w", err)
	}
	return count, nil
}

// CreateOrderTx persists the order snapshot and resets the conversation for a
// new cycle in one transaction: order row, item rows, status log entry, then
// cart clear + state advance + current_order_id on the conversation. If any
// step fails everything rolls back, so the cart stays intact and the customer
// can retry checkout.
func (r *Repo) CreateOrderTx(ctx context.Context, order domain.Order) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderID int
	err = tx.QueryRowContext(ctx, `
INSERT INTO orders
    (order_number, customer_phone, customer_name, delivery_address, subtotal, delivery_fee, tip, total, status, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
RETURNING id
`,
		order.Number,
		order.CustomerPhone,
		order.CustomerName,
		order.DeliveryAddress,
		order.Subtotal,
		order.DeliveryFee,
		order.Tip,
		order.Total,
		order.Status,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, item_id, name, price, category, added_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, item.ItemID, item.Name, item.Price, item.Category, item.AddedAt)
		if err != nil {
			return 0, fmt.Errorf("insert order item %s: %w", item.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
VALUES ($1, $2, 'whatsapp-bot', now())
`, orderID, order.Status)
	if err != nil {
		return 0, fmt.Errorf("insert order status log: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
UPDATE whatsapp_conversations
SET cart = '[]'::jsonb, state = $2, current_order_id = $3
WHERE customer_phone = $1
`, order.CustomerPhone, string(domain.StateOrderConfirmed), orderID)
	if err != nil {
		return 0, fmt.Errorf("reset conversation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return orderID, nil
}

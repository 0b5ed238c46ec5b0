package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type OrderStatus struct {
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatusEvent struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

type RepoInterface interface {
	GetOrderStatus(ctx context.Context, orderNumber string) (OrderStatus, bool, error)
	GetTimeline(ctx context.Context, orderNumber string, limit, offset int) ([]StatusEvent, error)
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) RepoInterface { return &Repo{db: db} }

func (r *Repo) GetOrderStatus(ctx context.Context, orderNumber string) (OrderStatus, bool, error) {
	var v OrderStatus
	err := r.db.QueryRowContext(ctx, `
SELECT order_number, status, total, created_at
FROM orders WHERE order_number = $1
ORDER BY id DESC LIMIT 1
`, orderNumber).Scan(&v.OrderNumber, &v.Status, &v.Total, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderStatus{}, false, nil
	}
	if err != nil {
		return OrderStatus{}, false, fmt.Errorf("get order status: %w", err)
	}
	return v, true, nil
}

func (r *Repo) GetTimeline(ctx context.Context, orderNumber string, limit, offset int) ([]StatusEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT l.status, l.changed_by, l.changed_at
FROM order_status_log l
JOIN orders o ON o.id = l.order_id
WHERE o.order_number = $1
ORDER BY l.changed_at ASC
LIMIT $2 OFFSET $3
`, orderNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get timeline: %w", err)
	}
	defer rows.Close()

	var out []StatusEvent
	for rows.Next() {
		var e StatusEvent
		if err := rows.Scan(&e.Status, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"localfirst-bot/internal/domain"
)

// RepoInterface is the store adapter for conversation records. All cart and
// state mutations are single SQL statements so concurrent deliveries for the
// same phone cannot overwrite each other's changes.
type RepoInterface interface {
	GetOrCreate(ctx context.Context, phone, name string) (domain.ConversationRecord, error)
	AppendCartLine(ctx context.Context, phone string, line domain.CartLine) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, phone string) error
	SetState(ctx context.Context, phone string, state domain.ConvState) error
	SetAddress(ctx context.Context, phone, address string) error
	LogMessage(ctx context.Context, phone, direction, msgType, content string) error
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) RepoInterface { return &Repo{db: db} }

// GetOrCreate upserts the per-phone record. The customer name is refreshed
// only when it was empty; last_message_at is refreshed on every event.
func (r *Repo) GetOrCreate(ctx context.Context, phone, name string) (domain.ConversationRecord, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO whatsapp_conversations (customer_phone, customer_name, state, cart, created_at, last_message_at)
VALUES ($1, $2, 'welcome', '[]'::jsonb, now(), now())
ON CONFLICT (customer_phone) DO UPDATE SET
  last_message_at = now(),
  customer_name = CASE
    WHEN whatsapp_conversations.customer_name = '' THEN EXCLUDED.customer_name
    ELSE whatsapp_conversations.customer_name
  END
RETURNING customer_phone, customer_name, state, cart, COALESCE(delivery_address, ''), current_order_id, created_at, last_message_at
`, phone, name)

	var (
		rec     domain.ConversationRecord
		state   string
		cartRaw []byte
		orderID sql.NullInt64
	)
	if err := row.Scan(&rec.Phone, &rec.CustomerName, &state, &cartRaw, &rec.DeliveryAddress,
		&orderID, &rec.CreatedAt, &rec.LastMessageAt); err != nil {
		return domain.ConversationRecord{}, fmt.Errorf("get or create conversation: %w", err)
	}
	rec.State = domain.ConvState(state)
	if err := json.Unmarshal(cartRaw, &rec.Cart); err != nil {
		return domain.ConversationRecord{}, fmt.Errorf("decode cart: %w", err)
	}
	if orderID.Valid {
		id := int(orderID.Int64)
		rec.CurrentOrderID = &id
	}
	return rec, nil
}

// AppendCartLine pushes one line onto the cart with a JSONB concatenation,
// atomic at the row, and returns the resulting cart.
func (r *Repo) AppendCartLine(ctx context.Context, phone string, line domain.CartLine) ([]domain.CartLine, error) {
	delta, err := json.Marshal([]domain.CartLine{line})
	if err != nil {
		return nil, fmt.Errorf("encode cart line: %w", err)
	}

	var cartRaw []byte
	err = r.db.QueryRowContext(ctx, `
UPDATE whatsapp_conversations
SET cart = cart || $2::jsonb, last_message_at = now()
WHERE customer_phone = $1
RETURNING cart
`, phone, delta).Scan(&cartRaw)
	if err != nil {
		return nil, fmt.Errorf("append cart line: %w", err)
	}

	var cart []domain.CartLine
	if err := json.Unmarshal(cartRaw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

func (r *Repo) ClearCart(ctx context.Context, phone string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE whatsapp_conversations SET cart = '[]'::jsonb WHERE customer_phone = $1
`, phone)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *Repo) SetState(ctx context.Context, phone string, state domain.ConvState) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE whatsapp_conversations SET state = $2 WHERE customer_phone = $1
`, phone, string(state))
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

func (r *Repo) SetAddress(ctx context.Context, phone, address string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE whatsapp_conversations SET delivery_address = $2 WHERE customer_phone = $1
`, phone, address)
	if err != nil {
		return fmt.Errorf("set address: %w", err)
	}
	return nil
}

// LogMessage appends to the audit log of everything the customer sent us.
func (r *Repo) LogMessage(ctx context.Context, phone, direction, msgType, content string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO whatsapp_messages (customer_phone, direction, message_type, content, created_at)
VALUES ($1, $2, $3, $4, now())
`, phone, direction, msgType, content)
	if err != nil {
		return fmt.Errorf("log message: %w", err)
	}
	return nil
}

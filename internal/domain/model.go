package domain

import "time"

// ConvState is the customer's position in the ordering flow.
type ConvState string

const (
	StateWelcome         ConvState = "welcome"
	StateMenuMain        ConvState = "menu_main"
	StateAwaitingAddress ConvState = "awaiting_address"
	StateSelectingTip    ConvState = "selecting_tip"
	StateOrderConfirmed  ConvState = "order_confirmed"
)

type MenuItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Emoji    string  `json:"emoji"`
}

// CartLine is a priced snapshot of one added menu item. Lines are immutable
// once appended; the cart only grows or is cleared as a whole.
type CartLine struct {
	ItemID   string    `json:"item_id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"added_at"`
}

// ConversationRecord is the per-phone persisted conversation state.
type ConversationRecord struct {
	Phone           string
	CustomerName    string
	State           ConvState
	Cart            []CartLine
	DeliveryAddress string
	CurrentOrderID  *int
	CreatedAt       time.Time
	LastMessageAt   time.Time
}

// Order is immutable once created. Items are a copy of the cart at checkout
// time, never a reference to it.
type Order struct {
	ID              int
	Number          string
	CustomerPhone   string
	CustomerName    string
	DeliveryAddress string
	Items           []CartLine
	Subtotal        float64
	DeliveryFee     float64
	Tip             float64
	Total           float64
	Status          string
	CreatedAt       time.Time
}

// InboundEvent is the normalized shape of one webhook message. Action is the
// button/list selection id; when it is empty, Text carries the payload.
type InboundEvent struct {
	MessageID    string
	Phone        string
	CustomerName string
	Text         string
	Action       string
}

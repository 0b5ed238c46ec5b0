package domain

import "time"

// OrderCreatedMessage is published to the orders topic after an order is
// committed. Dispatch and notification services consume it.
type OrderCreatedMessage struct {
	OrderNumber     string     `json:"order_number"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerName    string     `json:"customer_name"`
	DeliveryAddress string     `json:"delivery_address"`
	Items           []CartLine `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	DeliveryFee     float64    `json:"delivery_fee"`
	Tip             float64    `json:"tip"`
	Total           float64    `json:"total"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ActivityEvent feeds the analytics stream with customer message activity.
type ActivityEvent struct {
	CustomerPhone string    `json:"customer_phone"`
	Direction     string    `json:"direction"` // incoming | outgoing
	MessageType   string    `json:"message_type"`
	OccurredAt    time.Time `json:"occurred_at"`
}

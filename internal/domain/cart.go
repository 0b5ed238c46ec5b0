package domain

import "time"

// NewCartLine snapshots a menu item at the moment it is added.
func NewCartLine(item MenuItem, at time.Time) CartLine {
	return CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		AddedAt:  at.UTC(),
	}
}

// Subtotal sums unit prices. It is computed fresh on every call rather than
// cached on the record.
func Subtotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price
	}
	return sum
}

package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger records already-processed inbound message ids so redelivered
// webhook events can be acknowledged without reapplying side effects.
type Ledger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLedger(client *redis.Client, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Ledger{client: client, ttl: ttl}
}

func key(phone, messageID string) string {
	return "wamid:" + phone + ":" + messageID
}

// FirstDelivery marks the (phone, message id) pair as processed and reports
// whether this is the first time it was seen. SETNX makes the check and the
// mark a single atomic step.
func (l *Ledger) FirstDelivery(ctx context.Context, phone, messageID string) (bool, error) {
	return l.client.SetNX(ctx, key(phone, messageID), "1", l.ttl).Result()
}

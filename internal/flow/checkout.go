package flow

import (
	"context"
	"fmt"

	"localfirst-bot/internal/domain"
	"localfirst-bot/internal/messaging"
)

// checkout branches on the two preconditions of finalization: a non-empty
// cart and a stored delivery address. Missing pieces turn into prompts, never
// errors.
func (s *Service) checkout(ctx context.Context, rec domain.ConversationRecord) error {
	if len(rec.Cart) == 0 {
		s.send(ctx, rec.Phone, messaging.Text("Your cart is empty! Add some items first."))
		return nil
	}

	if rec.DeliveryAddress == "" {
		s.send(ctx, rec.Phone, messaging.Text("📍 Please send your delivery address:\n\n(e.g., 123 Main St NW, Calgary)"))
		return s.conv.SetState(ctx, rec.Phone, domain.StateAwaitingAddress)
	}

	subtotal := domain.Subtotal(rec.Cart)
	msg, err := messaging.Buttons(
		orderSummaryBody(rec, subtotal, s.deliveryFee),
		"",
		domain.Reply{ID: "tip_0", Title: "No Tip"},
		domain.Reply{ID: "tip_3", Title: "$3 Tip"},
		domain.Reply{ID: "tip_5", Title: "$5 Tip"},
	)
	if err != nil {
		return err
	}
	s.send(ctx, rec.Phone, msg)
	return s.conv.SetState(ctx, rec.Phone, domain.StateSelectingTip)
}

// captureAddress stores the free-text address and re-enters checkout, which
// now lands on tip selection.
func (s *Service) captureAddress(ctx context.Context, rec domain.ConversationRecord, address string) error {
	if err := s.conv.SetAddress(ctx, rec.Phone, address); err != nil {
		return err
	}
	s.send(ctx, rec.Phone, messaging.Text("✅ Address saved:\n📍 "+address+"\n\nContinuing to checkout..."))
	rec.DeliveryAddress = address
	return s.checkout(ctx, rec)
}

// finalize converts the cart into a persisted Order. Order row, item
// snapshot, status log and the conversation reset commit in one transaction;
// on failure nothing is applied and the customer is told to retry.
func (s *Service) finalize(ctx context.Context, rec domain.ConversationRecord, tip float64) error {
	if len(rec.Cart) == 0 {
		// Stale tip tap, e.g. after the order already went through.
		s.send(ctx, rec.Phone, messaging.Text("Your cart is empty! Add some items first."))
		return s.conv.SetState(ctx, rec.Phone, domain.StateMenuMain)
	}

	now := s.now().UTC()
	subtotal := domain.Subtotal(rec.Cart)
	total := subtotal + s.deliveryFee + tip

	count, err := s.orders.OrderCount(ctx)
	if err != nil {
		s.send(ctx, rec.Phone, messaging.Text(checkoutRetryBody()))
		return fmt.Errorf("order number sequence: %w", err)
	}
	number := fmt.Sprintf("LF-%s-%03d", now.Format("20060102"), count+1)

	order := domain.Order{
		Number:          number,
		CustomerPhone:   rec.Phone,
		CustomerName:    rec.CustomerName,
		DeliveryAddress: rec.DeliveryAddress,
		Items:           append([]domain.CartLine(nil), rec.Cart...),
		Subtotal:        subtotal,
		DeliveryFee:     s.deliveryFee,
		Tip:             tip,
		Total:           total,
		Status:          "pending",
		CreatedAt:       now,
	}

	orderID, err := s.orders.CreateOrderTx(ctx, order)
	if err != nil {
		s.send(ctx, rec.Phone, messaging.Text(checkoutRetryBody()))
		return fmt.Errorf("finalize order: %w", err)
	}
	order.ID = orderID

	if err := s.events.PublishOrderCreated(ctx, domain.OrderCreatedMessage{
		OrderNumber:     order.Number,
		CustomerPhone:   order.CustomerPhone,
		CustomerName:    order.CustomerName,
		DeliveryAddress: order.DeliveryAddress,
		Items:           order.Items,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Tip:             order.Tip,
		Total:           order.Total,
		CreatedAt:       order.CreatedAt,
	}); err != nil {
		// The order is committed; dispatch will be reconciled out of band.
		s.lg.Error("order_event_publish_failed", err, map[string]any{"order_number": order.Number})
	}

	s.send(ctx, rec.Phone, messaging.Text(confirmationBody(order)))
	trackMsg, err := messaging.Buttons(
		"Track your order in real-time:",
		"",
		domain.Reply{ID: "track_order", Title: "📍 Track Order"},
	)
	if err != nil {
		return err
	}
	s.send(ctx, rec.Phone, trackMsg)

	s.lg.Info("order_confirmed", map[string]any{
		"order_number": order.Number,
		"phone":        order.CustomerPhone,
		"total":        order.Total,
	})
	return nil
}

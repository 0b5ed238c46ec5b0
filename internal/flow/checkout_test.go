package flow

import (
	"context"
	"testing"

	"localfirst-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeOrder drives one full cycle up to tip selection: two items, address,
// checkout.
func placeOrder(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Handle(ctx, action(phone, "add_pepperoni"))) // 18.99
	require.NoError(t, f.svc.Handle(ctx, action(phone, "add_coke")))     // 2.99
	require.NoError(t, f.svc.Handle(ctx, action(phone, "checkout")))
	require.NoError(t, f.svc.Handle(ctx, text(phone, "123 Main St NW, Calgary")))
	require.Equal(t, domain.StateSelectingTip, f.conv.recs[phone].State)
}

func TestFinalizeTotalsPerTip(t *testing.T) {
	tests := []struct {
		tipAction string
		tip       float64
		total     float64
	}{
		{"tip_0", 0, 26.97},
		{"tip_3", 3, 29.97},
		{"tip_5", 5, 31.97},
	}
	for _, tc := range tests {
		t.Run(tc.tipAction, func(t *testing.T) {
			f := newFixture()
			placeOrder(t, f)

			require.NoError(t, f.svc.Handle(context.Background(), action(phone, tc.tipAction)))

			require.Len(t, f.orders.created, 1)
			order := f.orders.created[0]
			assert.InDelta(t, 21.98, order.Subtotal, 0.001)
			assert.InDelta(t, 4.99, order.DeliveryFee, 0.001)
			assert.InDelta(t, tc.tip, order.Tip, 0.001)
			assert.InDelta(t, tc.total, order.Total, 0.001)
			assert.Equal(t, "pending", order.Status)
		})
	}
}

func TestFinalizeSnapshotsCartItems(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)
	ctx := context.Background()

	require.NoError(t, f.svc.Handle(ctx, action(phone, "tip_3")))

	require.Len(t, f.orders.created, 1)
	items := f.orders.created[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "pepperoni", items[0].ItemID)
	assert.Equal(t, "coke", items[1].ItemID)

	// mutating the conversation afterwards must not touch the order snapshot
	require.NoError(t, f.svc.Handle(ctx, action(phone, "add_meat")))
	require.NoError(t, f.svc.Handle(ctx, action(phone, "clear_cart")))
	assert.Len(t, f.orders.created[0].Items, 2)
}

func TestFinalizeResetsConversation(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)

	require.NoError(t, f.svc.Handle(context.Background(), action(phone, "tip_5")))

	rec := f.conv.recs[phone]
	assert.Empty(t, rec.Cart)
	assert.Equal(t, domain.StateOrderConfirmed, rec.State)
	require.NotNil(t, rec.CurrentOrderID)
	assert.Equal(t, f.orders.created[0].ID, *rec.CurrentOrderID)

	// address persists across orders until replaced
	assert.Equal(t, "123 Main St NW, Calgary", rec.DeliveryAddress)
}

func TestFinalizePublishesOrderCreated(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)

	require.NoError(t, f.svc.Handle(context.Background(), action(phone, "tip_0")))

	require.Len(t, f.events.published, 1)
	msg := f.events.published[0]
	assert.Equal(t, f.orders.created[0].Number, msg.OrderNumber)
	assert.Equal(t, phone, msg.CustomerPhone)
	assert.Len(t, msg.Items, 2)
}

func TestFinalizeFailureKeepsCartAndState(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)
	f.orders.fail = true

	err := f.svc.Handle(context.Background(), action(phone, "tip_3"))
	require.Error(t, err)

	rec := f.conv.recs[phone]
	assert.Len(t, rec.Cart, 2)
	assert.Equal(t, domain.StateSelectingTip, rec.State)
	assert.Nil(t, rec.CurrentOrderID)
	assert.Empty(t, f.events.published)

	// customer is told to retry
	last := f.sender.sent[len(f.sender.sent)-1].msg
	require.NotNil(t, last.Text)
	assert.Contains(t, last.Text.Body, "try again")
}

func TestFinalizeWithEmptyCartCreatesNothing(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)
	ctx := context.Background()

	require.NoError(t, f.svc.Handle(ctx, action(phone, "tip_3")))
	require.Len(t, f.orders.created, 1)

	// a second, distinct tip tap after finalization finds an empty cart
	require.NoError(t, f.svc.Handle(ctx, action(phone, "tip_3")))
	assert.Len(t, f.orders.created, 1)
	assert.Equal(t, domain.StateMenuMain, f.conv.recs[phone].State)
}

func TestFinalizeBrokerOutageDoesNotUnwindOrder(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)
	f.events.fail = true

	require.NoError(t, f.svc.Handle(context.Background(), action(phone, "tip_0")))

	require.Len(t, f.orders.created, 1)
	assert.Equal(t, domain.StateOrderConfirmed, f.conv.recs[phone].State)
}

func TestOrderNumberIsDatedSequence(t *testing.T) {
	f := newFixture()
	placeOrder(t, f)

	require.NoError(t, f.svc.Handle(context.Background(), action(phone, "tip_0")))

	assert.Equal(t, "LF-20240601-001", f.orders.created[0].Number)
}

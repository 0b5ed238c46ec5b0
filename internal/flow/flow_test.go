package flow

import (
	"context"
	"errors"
	"time"

	"localfirst-bot/internal/analytics"
	"localfirst-bot/internal/domain"
	"localfirst-bot/internal/menu"
)

// fakeConv is an in-memory stand-in for the conversation store. It hands out
// copies so service code cannot mutate stored state behind the adapter's back.
type fakeConv struct {
	recs      map[string]*domain.ConversationRecord
	logged    int
	failState bool
}

func newFakeConv() *fakeConv {
	return &fakeConv{recs: map[string]*domain.ConversationRecord{}}
}

func (f *fakeConv) GetOrCreate(_ context.Context, phone, name string) (domain.ConversationRecord, error) {
	rec, ok := f.recs[phone]
	if !ok {
		rec = &domain.ConversationRecord{
			Phone:        phone,
			CustomerName: name,
			State:        domain.StateWelcome,
			CreatedAt:    time.Now().UTC(),
		}
		f.recs[phone] = rec
	} else if rec.CustomerName == "" {
		rec.CustomerName = name
	}
	rec.LastMessageAt = time.Now().UTC()
	return f.copyOf(rec), nil
}

func (f *fakeConv) AppendCartLine(_ context.Context, phone string, line domain.CartLine) ([]domain.CartLine, error) {
	rec := f.recs[phone]
	rec.Cart = append(rec.Cart, line)
	return append([]domain.CartLine(nil), rec.Cart...), nil
}

func (f *fakeConv) ClearCart(_ context.Context, phone string) error {
	f.recs[phone].Cart = nil
	return nil
}

func (f *fakeConv) SetState(_ context.Context, phone string, state domain.ConvState) error {
	if f.failState {
		return errors.New("state update failed")
	}
	f.recs[phone].State = state
	return nil
}

func (f *fakeConv) SetAddress(_ context.Context, phone, address string) error {
	f.recs[phone].DeliveryAddress = address
	return nil
}

func (f *fakeConv) LogMessage(_ context.Context, _, _, _, _ string) error {
	f.logged++
	return nil
}

func (f *fakeConv) copyOf(rec *domain.ConversationRecord) domain.ConversationRecord {
	out := *rec
	out.Cart = append([]domain.CartLine(nil), rec.Cart...)
	return out
}

// fakeOrders mimics the finalization transaction contract: a successful
// create also resets the conversation, a failed one leaves it untouched.
type fakeOrders struct {
	conv    *fakeConv
	created []domain.Order
	fail    bool
}

func (f *fakeOrders) OrderCount(context.Context) (int, error) { return len(f.created), nil }

func (f *fakeOrders) CreateOrderTx(_ context.Context, order domain.Order) (int, error) {
	if f.fail {
		return 0, errors.New("db down")
	}
	id := len(f.created) + 1
	order.ID = id
	f.created = append(f.created, order)

	rec := f.conv.recs[order.CustomerPhone]
	rec.Cart = nil
	rec.State = domain.StateOrderConfirmed
	rec.CurrentOrderID = &id
	return id, nil
}

type sentMsg struct {
	to  string
	msg domain.OutboundMessage
}

type recordingSender struct {
	sent []sentMsg
	fail bool
}

func (s *recordingSender) Send(_ context.Context, to string, msg domain.OutboundMessage) (string, error) {
	if s.fail {
		return "", errors.New("delivery channel down")
	}
	s.sent = append(s.sent, sentMsg{to: to, msg: msg})
	return "wamid.test", nil
}

type recordingEvents struct {
	published []domain.OrderCreatedMessage
	fail      bool
}

func (e *recordingEvents) PublishOrderCreated(_ context.Context, msg domain.OrderCreatedMessage) error {
	if e.fail {
		return errors.New("broker down")
	}
	e.published = append(e.published, msg)
	return nil
}

type fixture struct {
	svc    *Service
	conv   *fakeConv
	orders *fakeOrders
	sender *recordingSender
	events *recordingEvents
}

func newFixture() *fixture {
	conv := newFakeConv()
	ord := &fakeOrders{conv: conv}
	snd := &recordingSender{}
	evs := &recordingEvents{}
	svc := NewService(conv, ord, menu.Default(), snd, evs, analytics.NopPublisher{}, 4.99, "https://localfirst-yyc.vercel.app/track.html")
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, conv: conv, orders: ord, sender: snd, events: evs}
}

func action(phone, id string) domain.InboundEvent {
	return domain.InboundEvent{MessageID: "wamid." + id + phone, Phone: phone, CustomerName: "Jamie Doe", Action: id}
}

func text(phone, body string) domain.InboundEvent {
	return domain.InboundEvent{MessageID: "wamid.txt-" + body, Phone: phone, CustomerName: "Jamie Doe", Text: body}
}

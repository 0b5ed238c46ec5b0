package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"localfirst-bot/internal/analytics"
	"localfirst-bot/internal/common/logger"
	"localfirst-bot/internal/conversation"
	"localfirst-bot/internal/domain"
	"localfirst-bot/internal/menu"
	"localfirst-bot/internal/messaging"
	"localfirst-bot/internal/orders"
)

// OrderEventPublisher hands a committed order to downstream dispatch.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg domain.OrderCreatedMessage) error
}

// Service is the conversational state machine. One Handle call processes one
// normalized inbound event: it loads the conversation record, picks the
// transition for (state, event) and applies its effects through the store
// adapter. Every branch replies with at least one outbound message.
type Service struct {
	conv     conversation.RepoInterface
	orders   orders.RepoInterface
	catalog  *menu.Catalog
	sender   messaging.Sender
	events   OrderEventPublisher
	activity analytics.Publisher
	lg       *logger.Logger

	deliveryFee float64
	trackingURL string

	now func() time.Time
}

func NewService(
	conv conversation.RepoInterface,
	ordersRepo orders.RepoInterface,
	catalog *menu.Catalog,
	sender messaging.Sender,
	events OrderEventPublisher,
	activity analytics.Publisher,
	deliveryFee float64,
	trackingURL string,
) *Service {
	return &Service{
		conv:        conv,
		orders:      ordersRepo,
		catalog:     catalog,
		sender:      sender,
		events:      events,
		activity:    activity,
		lg:          logger.New("whatsapp-bot"),
		deliveryFee: deliveryFee,
		trackingURL: trackingURL,
		now:         time.Now,
	}
}

func (s *Service) Handle(ctx context.Context, ev domain.InboundEvent) error {
	msgType, content := "text", ev.Text
	if ev.Action != "" {
		msgType, content = "interactive", ev.Action
	}
	if err := s.conv.LogMessage(ctx, ev.Phone, "incoming", msgType, content); err != nil {
		s.lg.Error("message_log_failed", err, map[string]any{"phone": ev.Phone})
	}
	s.publishActivity(ctx, ev.Phone, "incoming", msgType)

	rec, err := s.conv.GetOrCreate(ctx, ev.Phone, ev.CustomerName)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	if ev.Action != "" {
		return s.handleAction(ctx, rec, ev.Action)
	}
	return s.handleText(ctx, rec, ev.Text)
}

func (s *Service) handleAction(ctx context.Context, rec domain.ConversationRecord, action string) error {
	switch {
	case action == "start_order" || action == "view_menu":
		return s.showMenu(ctx, rec.Phone)

	case action == "about_us":
		s.send(ctx, rec.Phone, messaging.Text(aboutBody()))
		return s.showMenu(ctx, rec.Phone)

	case strings.HasPrefix(action, "add_"):
		return s.addToCart(ctx, rec, strings.TrimPrefix(action, "add_"))

	case action == "view_cart":
		return s.showCart(ctx, rec)

	case action == "checkout":
		return s.checkout(ctx, rec)

	case action == "clear_cart":
		if err := s.conv.ClearCart(ctx, rec.Phone); err != nil {
			return err
		}
		s.send(ctx, rec.Phone, messaging.Text("🗑️ Cart cleared!"))
		return s.showMenu(ctx, rec.Phone)

	case strings.HasPrefix(action, "tip_"):
		tip, err := strconv.Atoi(strings.TrimPrefix(action, "tip_"))
		if err != nil || tip < 0 {
			return s.sendWelcome(ctx, rec)
		}
		return s.finalize(ctx, rec, float64(tip))

	case action == "track_order":
		s.send(ctx, rec.Phone, messaging.Text("📍 Track your order here:\n"+s.trackingURL))
		return nil

	default:
		// Unmapped action ids still get a reply, never silence.
		return s.sendWelcome(ctx, rec)
	}
}

func (s *Service) handleText(ctx context.Context, rec domain.ConversationRecord, text string) error {
	if rec.State == domain.StateAwaitingAddress && strings.TrimSpace(text) != "" {
		return s.captureAddress(ctx, rec, strings.TrimSpace(text))
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "hi", "hello", "start", "menu"):
		return s.sendWelcome(ctx, rec)
	case strings.Contains(lower, "cart"):
		return s.showCart(ctx, rec)
	case strings.Contains(lower, "order") || strings.Contains(lower, "checkout"):
		return s.checkout(ctx, rec)
	default:
		return s.sendWelcome(ctx, rec)
	}
}

func (s *Service) sendWelcome(ctx context.Context, rec domain.ConversationRecord) error {
	msg, err := messaging.Buttons(
		welcomeBody(rec.CustomerName),
		"🍕 LocalFirst YYC",
		domain.Reply{ID: "start_order", Title: "🍕 Start Order"},
		domain.Reply{ID: "about_us", Title: "💚 About Us"},
	)
	if err != nil {
		return err
	}
	s.send(ctx, rec.Phone, msg)
	return s.conv.SetState(ctx, rec.Phone, domain.StateMenuMain)
}

func (s *Service) showMenu(ctx context.Context, phone string) error {
	sections := make([]domain.ListSection, 0, len(s.catalog.Sections()))
	for _, sec := range s.catalog.Sections() {
		rows := make([]domain.ListRow, 0, len(sec.Items))
		for _, item := range sec.Items {
			rows = append(rows, domain.ListRow{
				ID:          "add_" + item.ID,
				Title:       item.Name,
				Description: price(item.Price),
			})
		}
		sections = append(sections, domain.ListSection{Title: sec.Title, Rows: rows})
	}
	s.send(ctx, phone, messaging.List(
		"What are you craving today? 😋\n\nBrowse our menu below:",
		"View Menu",
		sections,
	))
	return s.conv.SetState(ctx, phone, domain.StateMenuMain)
}

func (s *Service) addToCart(ctx context.Context, rec domain.ConversationRecord, itemID string) error {
	item, ok := s.catalog.Find(itemID)
	if !ok {
		s.send(ctx, rec.Phone, messaging.Text("Sorry, I couldn't find that item. Please try again."))
		return nil
	}

	cart, err := s.conv.AppendCartLine(ctx, rec.Phone, domain.NewCartLine(item, s.now()))
	if err != nil {
		return err
	}

	msg, err := messaging.Buttons(
		addedToCartBody(item, cart),
		"",
		domain.Reply{ID: "view_menu", Title: "➕ Add More"},
		domain.Reply{ID: "view_cart", Title: "🛒 View Cart"},
		domain.Reply{ID: "checkout", Title: "✅ Checkout"},
	)
	if err != nil {
		return err
	}
	s.send(ctx, rec.Phone, msg)
	return s.conv.SetState(ctx, rec.Phone, domain.StateMenuMain)
}

func (s *Service) showCart(ctx context.Context, rec domain.ConversationRecord) error {
	if len(rec.Cart) == 0 {
		msg, err := messaging.Buttons(
			"Your cart is empty! 🛒\n\nLet's add some delicious food.",
			"",
			domain.Reply{ID: "view_menu", Title: "🍕 View Menu"},
		)
		if err != nil {
			return err
		}
		s.send(ctx, rec.Phone, msg)
		return nil
	}

	msg, err := messaging.Buttons(
		cartBody(rec.Cart),
		"",
		domain.Reply{ID: "view_menu", Title: "➕ Add More"},
		domain.Reply{ID: "clear_cart", Title: "🗑️ Clear Cart"},
		domain.Reply{ID: "checkout", Title: "✅ Checkout"},
	)
	if err != nil {
		return err
	}
	s.send(ctx, rec.Phone, msg)
	return nil
}

// send delivers one reply. A failed send is an operational fault of the
// delivery layer: it is logged and the state transition stands.
func (s *Service) send(ctx context.Context, to string, msg domain.OutboundMessage) {
	if _, err := s.sender.Send(ctx, to, msg); err != nil {
		s.lg.Error("send_failed", err, map[string]any{"to": to, "type": msg.Type})
		return
	}
	s.publishActivity(ctx, to, "outgoing", msg.Type)
}

func (s *Service) publishActivity(ctx context.Context, phone, direction, msgType string) {
	ev := domain.ActivityEvent{
		CustomerPhone: phone,
		Direction:     direction,
		MessageType:   msgType,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.activity.PublishActivity(ctx, ev); err != nil {
		s.lg.Error("activity_publish_failed", err, map[string]any{"phone": phone})
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

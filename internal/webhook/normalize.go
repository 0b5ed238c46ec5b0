package webhook

import "localfirst-bot/internal/domain"

// Normalize folds the three inbound shapes (text, button reply, list reply)
// into one InboundEvent. Unsupported message types are dropped.
func Normalize(v domain.ChangeValue, m domain.InboundMessage) (domain.InboundEvent, bool) {
	if m.From == "" || m.ID == "" {
		return domain.InboundEvent{}, false
	}

	ev := domain.InboundEvent{MessageID: m.ID, Phone: m.From}
	for _, c := range v.Contacts {
		if c.WaID == m.From {
			ev.CustomerName = c.Profile.Name
			break
		}
	}

	switch m.Type {
	case "text":
		if m.Text == nil {
			return domain.InboundEvent{}, false
		}
		ev.Text = m.Text.Body
	case "interactive":
		if m.Interactive == nil {
			return domain.InboundEvent{}, false
		}
		switch {
		case m.Interactive.ButtonReply != nil:
			ev.Action = m.Interactive.ButtonReply.ID
		case m.Interactive.ListReply != nil:
			ev.Action = m.Interactive.ListReply.ID
		default:
			return domain.InboundEvent{}, false
		}
	default:
		return domain.InboundEvent{}, false
	}

	return ev, true
}

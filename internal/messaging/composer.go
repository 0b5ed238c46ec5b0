package messaging

import (
	"errors"

	"localfirst-bot/internal/domain"
)

// The WhatsApp interactive button message caps out at three quick replies.
const maxButtons = 3

var ErrTooManyButtons = errors.New("interactive message supports at most 3 buttons")

// Text builds a plain text message.
func Text(body string) domain.OutboundMessage {
	return domain.OutboundMessage{
		MessagingProduct: "whatsapp",
		Type:             "text",
		Text:             &domain.TextBody{Body: body},
	}
}

// Buttons builds a quick-reply button message. Header is optional.
func Buttons(body, header string, buttons ...domain.Reply) (domain.OutboundMessage, error) {
	if len(buttons) == 0 || len(buttons) > maxButtons {
		return domain.OutboundMessage{}, ErrTooManyButtons
	}
	var hdr *domain.InteractiveHeader
	if header != "" {
		hdr = &domain.InteractiveHeader{Type: "text", Text: header}
	}
	bts := make([]domain.InteractiveButton, 0, len(buttons))
	for _, b := range buttons {
		bts = append(bts, domain.InteractiveButton{Type: "reply", Reply: b})
	}
	return domain.OutboundMessage{
		MessagingProduct: "whatsapp",
		Type:             "interactive",
		Interactive: &domain.OutboundInteractive{
			Type:   "button",
			Header: hdr,
			Body:   domain.InteractiveBody{Text: body},
			Action: domain.InteractiveAction{Buttons: bts},
		},
	}, nil
}

// List builds a sectioned list message.
func List(body, buttonText string, sections []domain.ListSection) domain.OutboundMessage {
	return domain.OutboundMessage{
		MessagingProduct: "whatsapp",
		Type:             "interactive",
		Interactive: &domain.OutboundInteractive{
			Type:   "list",
			Body:   domain.InteractiveBody{Text: body},
			Action: domain.InteractiveAction{Button: buttonText, Sections: sections},
		},
	}
}

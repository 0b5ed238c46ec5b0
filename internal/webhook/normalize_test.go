package webhook

import (
	"testing"

	"localfirst-bot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDropsUnsupportedShapes(t *testing.T) {
	value := domain.ChangeValue{}

	cases := []struct {
		name string
		msg  domain.InboundMessage
	}{
		{"missing sender", domain.InboundMessage{ID: "wamid.1", Type: "text", Text: &domain.TextBody{Body: "hi"}}},
		{"missing id", domain.InboundMessage{From: "15875550101", Type: "text", Text: &domain.TextBody{Body: "hi"}}},
		{"image message", domain.InboundMessage{ID: "wamid.1", From: "15875550101", Type: "image"}},
		{"text without body", domain.InboundMessage{ID: "wamid.1", From: "15875550101", Type: "text"}},
		{"interactive without reply", domain.InboundMessage{ID: "wamid.1", From: "15875550101", Type: "interactive", Interactive: &domain.Interactive{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Normalize(value, tc.msg)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeListReply(t *testing.T) {
	msg := domain.InboundMessage{
		ID:   "wamid.1",
		From: "15875550101",
		Type: "interactive",
		Interactive: &domain.Interactive{
			Type:      "list_reply",
			ListReply: &domain.Reply{ID: "add_pepperoni", Title: "Pepperoni Pizza"},
		},
	}

	ev, ok := Normalize(domain.ChangeValue{}, msg)
	assert.True(t, ok)
	assert.Equal(t, "add_pepperoni", ev.Action)
}

func TestNormalizeMatchesContactByWaID(t *testing.T) {
	value := domain.ChangeValue{Contacts: []domain.Contact{
		{WaID: "15875550999", Profile: domain.ContactProfile{Name: "Someone Else"}},
		{WaID: "15875550101", Profile: domain.ContactProfile{Name: "Jamie Doe"}},
	}}
	msg := domain.InboundMessage{ID: "wamid.1", From: "15875550101", Type: "text", Text: &domain.TextBody{Body: "hi"}}

	ev, ok := Normalize(value, msg)
	assert.True(t, ok)
	assert.Equal(t, "Jamie Doe", ev.CustomerName)
}

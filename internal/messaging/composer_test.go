package messaging

import (
	"testing"

	"localfirst-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextShape(t *testing.T) {
	msg := Text("hello")

	assert.Equal(t, "whatsapp", msg.MessagingProduct)
	assert.Equal(t, "text", msg.Type)
	require.NotNil(t, msg.Text)
	assert.Equal(t, "hello", msg.Text.Body)
	assert.Nil(t, msg.Interactive)
}

func TestButtonsShape(t *testing.T) {
	msg, err := Buttons("pick one", "Header",
		domain.Reply{ID: "a", Title: "A"},
		domain.Reply{ID: "b", Title: "B"},
	)
	require.NoError(t, err)

	assert.Equal(t, "interactive", msg.Type)
	require.NotNil(t, msg.Interactive)
	assert.Equal(t, "button", msg.Interactive.Type)
	require.NotNil(t, msg.Interactive.Header)
	assert.Equal(t, "Header", msg.Interactive.Header.Text)
	require.Len(t, msg.Interactive.Action.Buttons, 2)
	assert.Equal(t, "reply", msg.Interactive.Action.Buttons[0].Type)
	assert.Equal(t, "a", msg.Interactive.Action.Buttons[0].Reply.ID)
}

func TestButtonsWithoutHeader(t *testing.T) {
	msg, err := Buttons("pick", "", domain.Reply{ID: "a", Title: "A"})
	require.NoError(t, err)
	assert.Nil(t, msg.Interactive.Header)
}

func TestButtonsCap(t *testing.T) {
	replies := []domain.Reply{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	_, err := Buttons("too many", "", replies...)
	assert.ErrorIs(t, err, ErrTooManyButtons)

	_, err = Buttons("none", "")
	assert.ErrorIs(t, err, ErrTooManyButtons)
}

func TestListShape(t *testing.T) {
	sections := []domain.ListSection{
		{Title: "Pizzas", Rows: []domain.ListRow{{ID: "add_pepperoni", Title: "Pepperoni Pizza", Description: "$18.99"}}},
	}
	msg := List("browse", "View Menu", sections)

	assert.Equal(t, "interactive", msg.Type)
	require.NotNil(t, msg.Interactive)
	assert.Equal(t, "list", msg.Interactive.Type)
	assert.Equal(t, "View Menu", msg.Interactive.Action.Button)
	require.Len(t, msg.Interactive.Action.Sections, 1)
	assert.Equal(t, "add_pepperoni", msg.Interactive.Action.Sections[0].Rows[0].ID)
}

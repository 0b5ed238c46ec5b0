package domain

// Wire shapes of the WhatsApp Cloud API webhook and message endpoints.

type WebhookEnvelope struct {
	Entry []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	Contacts []Contact        `json:"contacts,omitempty"`
	Messages []InboundMessage `json:"messages,omitempty"`
}

type Contact struct {
	WaID    string         `json:"wa_id"`
	Profile ContactProfile `json:"profile"`
}

type ContactProfile struct {
	Name string `json:"name"`
}

type InboundMessage struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	Type        string       `json:"type"` // text | interactive
	Text        *TextBody    `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string `json:"type"` // button_reply | list_reply
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// OutboundMessage is the request body for POST /<phone_id>/messages.
// Exactly one of Text or Interactive is set, matching Type.
type OutboundMessage struct {
	MessagingProduct string               `json:"messaging_product"`
	To               string               `json:"to,omitempty"`
	Type             string               `json:"type"` // text | interactive
	Text             *TextBody            `json:"text,omitempty"`
	Interactive      *OutboundInteractive `json:"interactive,omitempty"`
}

type OutboundInteractive struct {
	Type   string             `json:"type"` // button | list
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   InteractiveBody    `json:"body"`
	Action InteractiveAction  `json:"action"`
}

type InteractiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Buttons  []InteractiveButton `json:"buttons,omitempty"`
	Button   string              `json:"button,omitempty"`
	Sections []ListSection       `json:"sections,omitempty"`
}

type InteractiveButton struct {
	Type  string `json:"type"` // always "reply"
	Reply Reply  `json:"reply"`
}

type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

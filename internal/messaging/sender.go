package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"localfirst-bot/internal/config"
	"localfirst-bot/internal/domain"
)

// Sender delivers one outbound message and returns the platform message id.
type Sender interface {
	Send(ctx context.Context, to string, msg domain.OutboundMessage) (string, error)
}

// GraphSender posts messages to the WhatsApp Cloud (Graph) API.
type GraphSender struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

func NewGraphSender(cfg config.WhatsAppConfig) *GraphSender {
	return &GraphSender{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		baseURL:       cfg.APIBaseURL,
		token:         cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func (s *GraphSender) Send(ctx context.Context, to string, msg domain.OutboundMessage) (string, error) {
	msg.To = to

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal outbound message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("whatsapp send: status %d: %s", resp.StatusCode, snippet)
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode send response: %w", err)
	}
	if len(sr.Messages) == 0 {
		return "", nil
	}
	return sr.Messages[0].ID, nil
}

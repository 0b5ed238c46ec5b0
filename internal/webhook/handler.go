package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"localfirst-bot/internal/common/logger"
	"localfirst-bot/internal/domain"

	"github.com/gorilla/mux"
)

// Flow consumes normalized inbound events.
type Flow interface {
	Handle(ctx context.Context, ev domain.InboundEvent) error
}

// Ledger suppresses redelivered webhook events.
type Ledger interface {
	FirstDelivery(ctx context.Context, phone, messageID string) (bool, error)
}

type Handler struct {
	flow        Flow
	ledger      Ledger
	verifyToken string
	lg          *logger.Logger
}

func New(flow Flow, ledger Ledger, verifyToken string) *Handler {
	return &Handler{flow: flow, ledger: ledger, verifyToken: verifyToken, lg: logger.New("webhook")}
}

func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/webhook/whatsapp", h.Verify).Methods(http.MethodGet)
	r.HandleFunc("/webhook/whatsapp", h.Receive).Methods(http.MethodPost)
	return r
}

// Verify answers the platform handshake: a subscribe request carrying our
// verify token gets its challenge echoed back, anything else is forbidden.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		h.lg.Info("webhook_verified", nil)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// Receive ingests one webhook envelope. Per-message failures are logged and
// isolated; the platform always gets a 200 for a parseable body so it does
// not retry events we already applied.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var env domain.WebhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		h.lg.Error("webhook_parse_failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "invalid webhook payload"})
		return
	}

	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				ev, ok := Normalize(change.Value, msg)
				if !ok {
					continue
				}
				h.process(r.Context(), ev)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) process(ctx context.Context, ev domain.InboundEvent) {
	first, err := h.ledger.FirstDelivery(ctx, ev.Phone, ev.MessageID)
	if err != nil {
		// Fail open: a down ledger should not stall ordering, the duplicate
		// window is bounded by the platform's retry policy.
		h.lg.Error("idempotency_check_failed", err, map[string]any{"phone": ev.Phone})
	} else if !first {
		h.lg.Info("duplicate_delivery_skipped", map[string]any{"phone": ev.Phone, "message_id": ev.MessageID})
		return
	}

	if err := h.flow.Handle(ctx, ev); err != nil {
		h.lg.Error("event_handling_failed", err, map[string]any{"phone": ev.Phone, "message_id": ev.MessageID})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

package tracking

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Handler serves the read-only order tracking API the confirmation message
// links to.
type Handler struct {
	repo RepoInterface
}

func NewHandler(repo RepoInterface) *Handler { return &Handler{repo: repo} }

// Router is CORS-enabled because the tracking page calls it from the browser.
func Router(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/orders/{order_number}/status", h.GetStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/orders/{order_number}/timeline", h.GetTimeline).Methods(http.MethodGet)
	return cors.Default().Handler(r)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["order_number"]
	v, ok, err := h.repo.GetOrderStatus(r.Context(), number)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["order_number"]
	limit := atoiDefault(r.URL.Query().Get("limit"), 50)
	offset := atoiDefault(r.URL.Query().Get("offset"), 0)
	events, err := h.repo.GetTimeline(r.Context(), number, limit, offset)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_number": number, "events": events})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem is a simplified problem+json error shape.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

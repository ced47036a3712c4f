package httpadapter

import (
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/PabloGalante/comanda-agent/internal/app/conversation"
	"github.com/PabloGalante/comanda-agent/internal/app/orders"
	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/PabloGalante/comanda-agent/internal/observability"
)

//go:embed static/*
var staticFS embed.FS

type Server struct {
	svc    *conversation.Service
	orders *orders.Service
}

func NewServer(svc *conversation.Service, ordersSvc *orders.Service) http.Handler {
	s := &Server{svc: svc, orders: ordersSvc}
	mux := http.NewServeMux()

	// /        → GET: the chat widget page
	// /healthz → GET: liveness probe
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)

	// /api/transcript → GET: current transcript
	// /api/chat       → POST: send one user message
	// /api/orders     → GET: orders placed so far
	mux.HandleFunc("/api/transcript", s.handleTranscript)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/orders", s.handleOrders)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	UserMessage messageResponse `json:"user_message"`
	BotMessage  messageResponse `json:"bot_message"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type transcriptResponse struct {
	Messages []messageResponse `json:"messages"`
	Busy     bool              `json:"busy"`
}

type orderResponse struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Items    []string  `json:"items"`
	PlacedAt time.Time `json:"placed_at"`
}

type ordersResponse struct {
	Orders []orderResponse `json:"orders"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	out := s.svc.Transcript(r.Context(), 0)

	writeJSON(w, http.StatusOK, transcriptResponse{
		Messages: toMessagesResponse(out.Messages),
		Busy:     out.Busy,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Send(r.Context(), conversation.SendInput{
		Text: req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyMessage):
			badRequest(w, "text is required")
		case errors.Is(err, domain.ErrTurnInFlight):
			conflict(w, "a turn is already in flight")
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		UserMessage: toMessageResponse(out.UserMessage),
		BotMessage:  toMessageResponse(out.BotMessage),
	})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	placed, err := s.orders.List(r.Context(), 0)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ordersResponse{
		Orders: toOrdersResponse(placed),
	})
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Sender:    string(m.Sender),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toOrdersResponse(placed []*domain.PlacedOrder) []orderResponse {
	out := make([]orderResponse, 0, len(placed))
	for _, o := range placed {
		out = append(out, orderResponse{
			ID:       string(o.ID),
			Number:   o.Number,
			Items:    o.Items,
			PlacedAt: o.PlacedAt,
		})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func conflict(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	observability.Logger().Error().Err(err).Msg("internal server error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}

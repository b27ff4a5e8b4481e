// Package httpapi is the thin HTTP transport over the gateway: routing, DTO
// serialization, CORS and request logging. All business rules live in the
// gateway and below; handlers only translate between wire shapes and the
// domain error taxonomy.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/deskbrief/core"
	"github.com/hupe1980/deskbrief/extract"
	"github.com/hupe1980/deskbrief/gateway"
	"github.com/hupe1980/deskbrief/logging"
)

// Banner is returned by the liveness endpoint.
const Banner = "Organization AI Assistant with Company Knowledge Base and Structured Output"

// Server hosts the HTTP handlers for the gateway.
type Server struct {
	gw     *gateway.Gateway
	logger logging.Logger
}

// NewServer wires the gateway into an http.Handler with CORS and request
// logging applied.
func NewServer(gw *gateway.Gateway, logger logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	s := &Server{gw: gw, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/structured-chat", s.handleStructuredChat)
	mux.HandleFunc("/sessions/", s.handleSession)

	return chainMiddlewares(mux, withCORS, withLogging(logger))
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type structuredChatResponse struct {
	StructuredData extract.Extraction `json:"structured_data"`
	SessionID      string             `json:"session_id"`
}

type sessionResponse struct {
	SessionID    string    `json:"session_id"`
	Created      time.Time `json:"created"`
	LastUpdated  time.Time `json:"last_updated"`
	MessageCount int       `json:"message_count"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": Banner})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	out, err := s.gw.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: out.Response, SessionID: out.SessionID})
}

func (s *Server) handleStructuredChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	out, err := s.gw.StructuredChat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, structuredChatResponse{
		StructuredData: *out.Extraction,
		SessionID:      out.SessionID,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	summary, err := s.gw.Inspect(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:    summary.SessionID,
		Created:      summary.Created,
		LastUpdated:  summary.LastUpdated,
		MessageCount: summary.TurnCount,
	})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return req, false
	}
	return req, true
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, core.ErrModeMismatch):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session was created for a different mode"})
	case errors.Is(err, core.ErrStructuredOutputInvalid):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "model returned malformed structured output"})
	case errors.Is(err, core.ErrModelUnavailable):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "model backend unavailable"})
	default:
		s.logger.Error("unhandled request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

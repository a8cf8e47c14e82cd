package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"github.com/Xu-Jack11/aipartner/internal/llm"
)

const sessionTitleRunes = 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string         `json:"type"`      // "message"
	SessionID string         `json:"sessionId"` // empty starts a new session
	Content   string         `json:"content"`
	Model     string         `json:"model,omitempty"`
	Tools     []llm.ToolName `json:"tools,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
	Tokens    int    `json:"tokens,omitempty"`
}

// ChatHandler serves the dialogue service over a WebSocket.
type ChatHandler struct {
	svc      *Service
	markdown goldmark.Markdown
	logger   zerolog.Logger
}

// NewChatHandler creates a WebSocket chat handler.
func NewChatHandler(svc *Service, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		svc:      svc,
		markdown: goldmark.New(),
		logger:   logger.With().Str("component", "chat").Logger(),
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.send(conn, chatResponse{Type: "error", Content: "invalid message format"})
			continue
		}

		switch req.Type {
		case "message":
			h.handleMessage(conn, r, userID, req)
		default:
			h.send(conn, chatResponse{Type: "error", SessionID: req.SessionID, Content: "unknown message type: " + req.Type})
		}
	}
}

func (h *ChatHandler) handleMessage(conn *websocket.Conn, r *http.Request, userID string, req chatRequest) {
	ctx := r.Context()
	sessionID := req.SessionID

	content, err := validateLength("content", req.Content, MaxContentLength)
	if err != nil {
		h.send(conn, chatResponse{Type: "error", SessionID: sessionID, Content: err.Error()})
		return
	}

	created := false
	if sessionID == "" {
		title := truncateRunes(content, sessionTitleRunes)
		sess, err := h.svc.CreateSession(ctx, userID, CreateSessionInput{Title: title, Focus: title})
		if err != nil {
			h.send(conn, chatResponse{Type: "error", Content: err.Error()})
			return
		}
		sessionID = sess.ID
		created = true
	}

	reply, err := h.svc.SendMessage(ctx, userID, sessionID, SendMessageInput{
		Content: content,
		Model:   req.Model,
		Tools:   req.Tools,
	})
	if err != nil {
		if created {
			// A session whose first exchange failed is not kept.
			if derr := h.svc.DeleteSession(context.WithoutCancel(ctx), userID, sessionID); derr != nil {
				h.logger.Warn().Err(derr).Str("session", sessionID).Msg("removing failed session")
			}
			sessionID = ""
		}
		h.send(conn, chatResponse{Type: "error", SessionID: sessionID, Content: err.Error()})
		return
	}

	h.send(conn, chatResponse{
		Type:      "response",
		SessionID: sessionID,
		Content:   reply.Content,
		HTML:      h.render(reply.Content),
		Tokens:    reply.Tokens,
	})
}

// render converts a markdown reply to HTML, or returns "" on failure.
func (h *ChatHandler) render(content string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(content), &buf); err != nil {
		h.logger.Warn().Err(err).Msg("rendering markdown")
		return ""
	}
	return buf.String()
}

func (h *ChatHandler) send(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Warn().Err(err).Msg("websocket write")
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

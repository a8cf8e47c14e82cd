package dialogue

import (
	"errors"
	"time"

	"github.com/Xu-Jack11/aipartner/internal/llm"
)

// Input limits, counted in characters.
const (
	MaxTitleLength   = 200
	MaxFocusLength   = 500
	MaxContentLength = 10000
)

var (
	// ErrSessionNotFound is returned when a session does not exist or is
	// owned by another user.
	ErrSessionNotFound = errors.New("会话不存在")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// Session is a titled conversation owned by one user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Focus     string    `json:"focus"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages,omitempty"`
}

// Message is one persisted turn of a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Role      llm.Role  `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	Tokens    int       `json:"tokens,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateSessionInput is the payload for creating a session.
type CreateSessionInput struct {
	Title string `json:"title"`
	Focus string `json:"focus"`
}

// SendMessageInput is the payload for sending a user message.
type SendMessageInput struct {
	Content     string         `json:"content"`
	Model       string         `json:"model,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
	MaxTokens   int            `json:"maxTokens,omitempty"`
	Tools       []llm.ToolName `json:"tools,omitempty"`
}

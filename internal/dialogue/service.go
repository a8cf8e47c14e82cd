// Package dialogue manages study conversations and turns each user message
// into a completion request.
package dialogue

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Xu-Jack11/aipartner/internal/llm"
)

// Service implements the session operations on top of a Store and a
// completion provider.
type Service struct {
	store    *Store
	provider llm.Provider
	logger   zerolog.Logger
}

// NewService creates a dialogue service.
func NewService(store *Store, provider llm.Provider, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		provider: provider,
		logger:   logger.With().Str("component", "dialogue").Logger(),
	}
}

// Store returns the underlying store.
func (s *Service) Store() *Store { return s.store }

func validateLength(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if n > max {
		return "", fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, max)
	}
	return value, nil
}

// CreateSession validates in and creates a session owned by userID.
func (s *Service) CreateSession(ctx context.Context, userID string, in CreateSessionInput) (*Session, error) {
	title, err := validateLength("title", in.Title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	focus, err := validateLength("focus", in.Focus, MaxFocusLength)
	if err != nil {
		return nil, err
	}
	return s.store.CreateSession(ctx, userID, title, focus)
}

// ListSessions returns userID's sessions, most recently active first.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}

// owned loads a session and checks that userID owns it.
func (s *Service) owned(ctx context.Context, userID, sessionID string) (*Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetSession returns a session with its messages in conversation order.
func (s *Service) GetSession(ctx context.Context, userID, sessionID string) (*Session, error) {
	sess, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}
	sess.Messages = messages
	return sess, nil
}

// DeleteSession removes a session owned by userID together with its messages.
func (s *Service) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, sessionID)
}

// SendMessage stores the user's message, asks the provider for a reply over
// the whole session history and stores the reply. When the provider fails
// the error is returned as is and no assistant message is stored.
func (s *Service) SendMessage(ctx context.Context, userID, sessionID string, in SendMessageInput) (*Message, error) {
	content, err := validateLength("content", in.Content, MaxContentLength)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	if _, err := s.store.AddMessage(ctx, Message{SessionID: sessionID, Role: llm.RoleUser, Content: content}); err != nil {
		return nil, err
	}

	history, err := s.store.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	req := llm.CompletionRequest{
		Messages:    toLLMMessages(history),
		Model:       in.Model,
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
		Tools:       in.Tools,
	}
	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("session", sessionID).Str("provider", s.provider.Name()).Msg("completion failed")
		return nil, err
	}

	reply, err := s.store.AddMessage(ctx, Message{
		SessionID: sessionID,
		Role:      llm.RoleAssistant,
		Content:   resp.Content,
		Model:     resp.Model,
		Tokens:    resp.Tokens,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.TouchSession(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("touching session")
	}
	return reply, nil
}

func toLLMMessages(history []Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

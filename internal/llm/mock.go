package llm

import (
	"context"
	"time"
)

const (
	// DefaultMockDelay approximates a network round-trip for local development.
	DefaultMockDelay = time.Second

	// mockTokensPerMessage is placeholder telemetry, not a tokenizer.
	mockTokensPerMessage = 50

	mockReplyPrefix = "这是一个模拟回复。您说："
	mockGreeting    = "您好！我是AI学习助手，很高兴为您服务。"
)

// MockProvider answers locally without any backend. It is selected when no
// API key is configured.
type MockProvider struct {
	preparer Preparer
	delay    time.Duration
	now      func() time.Time
}

// NewMockProvider creates a mock provider that waits delay before answering.
func NewMockProvider(preparer Preparer, delay time.Duration) *MockProvider {
	return &MockProvider{
		preparer: preparer,
		delay:    delay,
		now:      time.Now,
	}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	messages := prepare(ctx, p.preparer, req)

	content := mockGreeting
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			content = mockReplyPrefix + messages[i].Content
			break
		}
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, &ProviderError{Provider: p.Name(), Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return &CompletionResult{
		Content: content,
		Tokens:  len(req.Messages) * mockTokensPerMessage,
		Model:   "mock-model-1",
	}, nil
}

func (p *MockProvider) ListModels(ctx context.Context) []ModelInfo {
	created := p.now().Unix()
	return []ModelInfo{
		{ID: "mock-model-1", Object: "model", Created: created, OwnedBy: "mock"},
		{ID: "mock-model-2", Object: "model", Created: created, OwnedBy: "mock"},
	}
}

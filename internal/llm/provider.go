package llm

import "context"

// Provider defines the interface for completion backends.
type Provider interface {
	// Complete sends a completion request and returns the response. It either
	// returns a full result or fails with a *ProviderError.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
	// ListModels returns the models the backend advertises. It never fails;
	// any backend problem yields an empty slice.
	ListModels(ctx context.Context) []ModelInfo
	// Name returns the name of this provider.
	Name() string
}

// Preparer turns a request into the message sequence actually sent to a
// backend, merging any requested enrichment into the system guidance.
// Implementations must not mutate req.Messages.
type Preparer interface {
	Prepare(ctx context.Context, req CompletionRequest) []Message
}

// prepare runs p when set and otherwise returns a copy of the request messages.
func prepare(ctx context.Context, p Preparer, req CompletionRequest) []Message {
	if p == nil {
		return CloneMessages(req.Messages)
	}
	return p.Prepare(ctx, req)
}

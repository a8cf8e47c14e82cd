package llm

import (
	"context"
	"time"
)

// Recorder receives one observation per completion call.
type Recorder interface {
	ObserveCompletion(provider string, err error, duration time.Duration, tokens int)
}

// InstrumentedProvider reports every completion to a Recorder.
type InstrumentedProvider struct {
	provider Provider
	recorder Recorder
}

// NewInstrumentedProvider wraps provider so each Complete call is recorded.
func NewInstrumentedProvider(provider Provider, recorder Recorder) Provider {
	return &InstrumentedProvider{provider: provider, recorder: recorder}
}

func (p *InstrumentedProvider) Name() string {
	return p.provider.Name()
}

func (p *InstrumentedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	start := time.Now()
	resp, err := p.provider.Complete(ctx, req)

	tokens := 0
	if resp != nil {
		tokens = resp.Tokens
	}
	p.recorder.ObserveCompletion(p.provider.Name(), err, time.Since(start), tokens)
	return resp, err
}

func (p *InstrumentedProvider) ListModels(ctx context.Context) []ModelInfo {
	return p.provider.ListModels(ctx)
}

package llm

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// SDKProvider implements Provider using the go-openai client against any
// OpenAI-compatible API.
type SDKProvider struct {
	opts     Options
	client   *openai.Client
	model    string
	preparer Preparer
	logger   zerolog.Logger
}

// NewSDKProvider creates a new SDK-mediated provider. When opts.Model is
// empty the default model is inferred from the base URL. A nil preparer
// sends messages as given.
func NewSDKProvider(opts Options, preparer Preparer, logger zerolog.Logger) *SDKProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = NormalizeBaseURL(opts.BaseURL)
	cfg.HTTPClient = opts.httpClient()

	model := opts.Model
	if model == "" {
		model = InferModel(cfg.BaseURL)
	}

	logger = logger.With().Str("provider", "openai-sdk").Logger()
	logger.Debug().Str("base_url", cfg.BaseURL).Str("model", model).Msg("sdk provider initialized")

	return &SDKProvider{
		opts:     opts,
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		preparer: preparer,
		logger:   logger,
	}
}

func (p *SDKProvider) Name() string {
	return "openai-sdk"
}

func (p *SDKProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range prepare(ctx, p.preparer, req) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	temperature := float32(p.opts.temperature(req))
	if temperature == 0 {
		// go-openai omits a zero temperature from the request body.
		temperature = math.SmallestNonzeroFloat32
	}

	p.logger.Debug().Str("model", model).Int("messages", len(messages)).Msg("generating completion")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   p.opts.maxTokens(req),
		Temperature: temperature,
	})
	if err != nil {
		p.logger.Error().Err(err).Msg("chat completion failed")
		return nil, p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: ErrNoChoices}
	}

	return &CompletionResult{
		Content: resp.Choices[0].Message.Content,
		Tokens:  resp.Usage.TotalTokens,
		Model:   resp.Model,
	}, nil
}

func (p *SDKProvider) wrapError(err error) error {
	perr := &ProviderError{Provider: p.Name(), Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		perr.StatusCode = apiErr.HTTPStatusCode
		perr.Body = apiErr.Message
	case errors.As(err, &reqErr):
		perr.StatusCode = reqErr.HTTPStatusCode
	}
	return perr
}

func (p *SDKProvider) ListModels(ctx context.Context) []ModelInfo {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("listing models")
		return []ModelInfo{}
	}

	models := make([]ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, ModelInfo{ID: m.ID, Object: m.Object, Created: m.CreatedAt, OwnedBy: m.OwnedBy})
	}
	return models
}

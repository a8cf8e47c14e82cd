package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// HTTPProvider implements Provider against an OpenAI-compatible
// chat-completions endpoint via direct HTTP.
type HTTPProvider struct {
	opts     Options
	baseURL  string
	model    string
	client   *http.Client
	preparer Preparer
	logger   zerolog.Logger
}

// NewHTTPProvider creates a new direct-HTTP provider.
func NewHTTPProvider(opts Options, preparer Preparer, logger zerolog.Logger) *HTTPProvider {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &HTTPProvider{
		opts:     opts,
		baseURL:  NormalizeBaseURL(opts.BaseURL),
		model:    model,
		client:   opts.httpClient(),
		preparer: preparer,
		logger:   logger.With().Str("provider", "openai-http").Logger(),
	}
}

func (p *HTTPProvider) Name() string {
	return "openai-http"
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type chatChoice struct {
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type modelsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Created int64  `json:"created"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

func (p *HTTPProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	prepared := prepare(ctx, p.preparer, req)
	messages := make([]chatMessage, 0, len(prepared))
	for _, msg := range prepared {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	apiReq := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.opts.temperature(req),
		MaxTokens:   p.opts.maxTokens(req),
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("marshalling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.opts.APIKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		p.logger.Error().Int("status", httpResp.StatusCode).Str("body", string(respBody)).Msg("chat completion failed")
		return nil, &ProviderError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var apiResp chatCompletionResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: fmt.Errorf("unmarshalling response: %w", err)}
	}

	if len(apiResp.Choices) == 0 {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: httpResp.StatusCode, Err: ErrNoChoices}
	}

	var content string
	if c := apiResp.Choices[0].Message.Content; c != nil {
		content = *c
	}

	return &CompletionResult{
		Content: content,
		Tokens:  apiResp.Usage.TotalTokens,
		Model:   apiResp.Model,
	}, nil
}

func (p *HTTPProvider) ListModels(ctx context.Context) []ModelInfo {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		p.logger.Warn().Err(err).Msg("building models request")
		return []ModelInfo{}
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.opts.APIKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn().Err(err).Msg("listing models")
		return []ModelInfo{}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		p.logger.Warn().Int("status", httpResp.StatusCode).Msg("listing models")
		return []ModelInfo{}
	}

	var data modelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&data); err != nil {
		p.logger.Warn().Err(err).Msg("decoding models response")
		return []ModelInfo{}
	}

	models := make([]ModelInfo, 0, len(data.Data))
	for _, m := range data.Data {
		models = append(models, ModelInfo{ID: m.ID, Object: m.Object, Created: m.Created, OwnedBy: m.OwnedBy})
	}
	return models
}

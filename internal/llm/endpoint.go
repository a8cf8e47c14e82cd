package llm

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenAI API root including its version segment.
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 60 * time.Second
)

// Provider modes select which real backend implementation is constructed.
const (
	ModeSDK  = "sdk"
	ModeHTTP = "http"
)

// Options configures provider construction. It is built once at startup from
// the application config.
type Options struct {
	APIKey      string
	BaseURL     string
	Mode        string
	Model       string
	// Temperature is the configured sampling temperature; nil means
	// DefaultTemperature. Zero is a valid setting.
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
	MockDelay   time.Duration
	// HTTPClient overrides the client used for backend calls.
	HTTPClient *http.Client
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (o Options) temperature(req CompletionRequest) float64 {
	if req.Temperature != nil {
		return *req.Temperature
	}
	if o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}

func (o Options) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return DefaultMaxTokens
}

var versionSegment = regexp.MustCompile(`/v\d+$`)

// NormalizeBaseURL returns raw with a trailing versioned path segment,
// appending "/v1" when the path does not already end in one.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBaseURL
	}
	path := base
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		path = u.Path
	}
	if versionSegment.MatchString(path) {
		return base
	}
	return base + "/v1"
}

// hostModels maps well-known API hosts to their general chat model.
var hostModels = []struct {
	host  string
	model string
}{
	{"deepseek.com", "deepseek-chat"},
	{"moonshot.cn", "moonshot-v1-8k"},
	{"dashscope.aliyuncs.com", "qwen-turbo"},
	{"bigmodel.cn", "glm-4-flash"},
	{"openrouter.ai", "openai/gpt-4o-mini"},
	{"openai.com", DefaultModel},
}

// InferModel picks a default chat model from the host of baseURL.
// Unknown or unparsable hosts get DefaultModel.
func InferModel(baseURL string) string {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return DefaultModel
	}
	host := strings.ToLower(u.Hostname())
	for _, hm := range hostModels {
		if host == hm.host || strings.HasSuffix(host, "."+hm.host) {
			return hm.model
		}
	}
	return DefaultModel
}

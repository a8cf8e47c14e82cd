package config

import "time"

// DefaultConfig returns a Config with sensible defaults. Without an API key
// the mock provider is used.
func DefaultConfig() *Config {
	return &Config{
		ProviderMode:   ModeSDK,
		Temperature:    0.7,
		MaxTokens:      2000,
		RequestTimeout: 60 * time.Second,
		MockDelay:      time.Second,
		Search: SearchConfig{
			BaseURL: "https://api.duckduckgo.com/",
			Limit:   3,
			Timeout: 10 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			Limit: 3,
		},
		Server: ServerConfig{
			Port: 4000,
		},
		Database: DatabaseConfig{
			Path: ".aipartner/aipartner.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// baseURLPresets maps wizard choices to OpenAI-compatible API roots.
var baseURLPresets = []struct {
	Name    string
	BaseURL string
}{
	{Name: "OpenAI", BaseURL: "https://api.openai.com/v1"},
	{Name: "DeepSeek", BaseURL: "https://api.deepseek.com"},
	{Name: "Moonshot", BaseURL: "https://api.moonshot.cn/v1"},
	{Name: "DashScope (Qwen)", BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1"},
	{Name: "Zhipu BigModel", BaseURL: "https://open.bigmodel.cn/api/paas/v4"},
	{Name: "OpenRouter", BaseURL: "https://openrouter.ai/api/v1"},
}

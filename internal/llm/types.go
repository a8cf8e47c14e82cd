package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolName identifies a per-request capability a caller can ask for.
// Names outside the known set are ignored, never rejected.
type ToolName string

const (
	ToolKnowledgeBase ToolName = "knowledge-base"
	ToolWebSearch     ToolName = "web-search"
	ToolDeepAnalyze   ToolName = "deep-analyze"
)

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Messages []Message
	// Model is optional; providers apply their own default when empty.
	Model string
	// Temperature is optional; nil means the provider default.
	Temperature *float64
	// MaxTokens is optional; zero means the provider default.
	MaxTokens int
	Tools     []ToolName
}

// HasTool reports whether the request asks for the given tool.
func (r CompletionRequest) HasTool(name ToolName) bool {
	for _, t := range r.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// CompletionResult contains the result of an LLM completion request.
type CompletionResult struct {
	Content string `json:"content"`
	// Tokens is the total token count reported by the backend, zero if unknown.
	Tokens int    `json:"tokens,omitempty"`
	Model  string `json:"model,omitempty"`
}

// ModelInfo describes a model advertised by a provider.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"ownedBy,omitempty"`
}

// CloneMessages returns a copy of msgs that shares no backing array with it.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Float64 returns a pointer to v, for optional request fields.
func Float64(v float64) *float64 {
	return &v
}

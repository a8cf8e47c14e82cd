package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Xu-Jack11/aipartner/internal/knowledge"
	"github.com/Xu-Jack11/aipartner/internal/llm"
	"github.com/Xu-Jack11/aipartner/internal/websearch"
)

type recordingProvider struct {
	last llm.CompletionRequest
	err  error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResult{Content: "answer: " + req.Messages[0].Content}, nil
}

func (p *recordingProvider) ListModels(context.Context) []llm.ModelInfo { return nil }

func newDDG(t *testing.T, body string, status int) *websearch.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return websearch.New(websearch.Options{BaseURL: ts.URL})
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_knowledge_base", searchKnowledgeBaseTool, "search_knowledge_base"},
		{"web_search", webSearchTool, "web_search"},
		{"ask", askTool, "ask"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	kb := knowledge.Default()
	srv := NewServer(kb, nil, nil)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.kb != kb {
		t.Error("knowledge base not set correctly")
	}
}

func TestHandleSearchKnowledgeBase(t *testing.T) {
	srv := NewServer(knowledge.Default(), nil, nil)
	ctx := context.Background()

	t.Run("match", func(t *testing.T) {
		result, err := srv.handleSearchKnowledgeBase(ctx, callTool(map[string]any{"query": "番茄工作法", "limit": 1}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		if !strings.Contains(text, "Found 1 entry") || !strings.Contains(text, "番茄工作法的高效使用指南") {
			t.Errorf("unexpected output: %q", text)
		}
	})

	t.Run("no match", func(t *testing.T) {
		result, err := srv.handleSearchKnowledgeBase(ctx, callTool(map[string]any{"query": "zzzz"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		result, err := srv.handleSearchKnowledgeBase(ctx, callTool(map[string]any{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleWebSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("results", func(t *testing.T) {
		web := newDDG(t, `{"Results":[{"FirstURL":"https://go.dev","Text":"Go - The Go programming language"}]}`, http.StatusOK)
		srv := NewServer(knowledge.Default(), web, nil)

		result, err := srv.handleWebSearch(ctx, callTool(map[string]any{"query": "golang"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := extractText(result)
		if result.IsError || !strings.Contains(text, "链接：https://go.dev") {
			t.Errorf("unexpected output: %q", text)
		}
	})

	t.Run("api failure", func(t *testing.T) {
		web := newDDG(t, "oops", http.StatusInternalServerError)
		srv := NewServer(knowledge.Default(), web, nil)

		result, err := srv.handleWebSearch(ctx, callTool(map[string]any{"query": "golang"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error on API failure")
		}
	})
}

func TestHandleAsk(t *testing.T) {
	ctx := context.Background()
	provider := &recordingProvider{}
	srv := NewServer(knowledge.Default(), nil, provider)

	result, err := srv.handleAsk(ctx, callTool(map[string]any{
		"question": "什么是费曼学习法",
		"tools":    []any{"knowledge-base", "deep-analyze"},
		"model":    "glm-4-flash",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := extractText(result); got != "answer: 什么是费曼学习法" {
		t.Errorf("unexpected answer: %q", got)
	}
	if provider.last.Model != "glm-4-flash" {
		t.Errorf("model = %q", provider.last.Model)
	}
	if !provider.last.HasTool(llm.ToolKnowledgeBase) || !provider.last.HasTool(llm.ToolDeepAnalyze) {
		t.Errorf("tools not forwarded: %v", provider.last.Tools)
	}

	provider.err = &llm.ProviderError{Provider: "recording", StatusCode: 401}
	result, err = srv.handleAsk(ctx, callTool(map[string]any{"question": "hi"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(extractText(result), "status 401") {
		t.Errorf("expected provider error surfaced, got %q", extractText(result))
	}

	result, _ = srv.handleAsk(ctx, callTool(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing question")
	}
}

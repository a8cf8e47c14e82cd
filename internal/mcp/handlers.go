package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Xu-Jack11/aipartner/internal/knowledge"
	"github.com/Xu-Jack11/aipartner/internal/llm"
	"github.com/Xu-Jack11/aipartner/internal/websearch"
)

func (s *Server) handleSearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", knowledge.DefaultLimit)
	if limit <= 0 {
		limit = knowledge.DefaultLimit
	}

	matches := s.kb.Search(query, limit)
	if len(matches) == 0 {
		return mcp.NewToolResultText("No matching knowledge base entries."), nil
	}
	return mcp.NewToolResultText(formatMatches(matches)), nil
}

func (s *Server) handleWebSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", websearch.DefaultLimit)
	if limit <= 0 {
		limit = websearch.DefaultLimit
	}

	results, err := s.web.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("web search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No web results found."), nil
	}
	return mcp.NewToolResultText(websearch.Render(results)), nil
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	var tools []llm.ToolName
	for _, t := range request.GetStringSlice("tools", nil) {
		tools = append(tools, llm.ToolName(t))
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: question}},
		Model:    request.GetString("model", ""),
		Tools:    tools,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}
	return mcp.NewToolResultText(resp.Content), nil
}

// formatMatches renders knowledge base matches for agent consumption.
func formatMatches(matches []knowledge.Match) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d entr%s:\n", len(matches), plural(len(matches))))

	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("\n--- %d. %s ---\n", i+1, m.Entry.Title))
		sb.WriteString(fmt.Sprintf("Score: %.2f\n", m.Score))
		if len(m.Entry.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(m.Entry.Tags, ", ")))
		}
		sb.WriteString("\n")
		sb.WriteString(m.Entry.Summary)
		sb.WriteString("\n")
		for _, kp := range m.Entry.KeyPoints {
			sb.WriteString("- " + kp + "\n")
		}
	}
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

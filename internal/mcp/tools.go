package mcp

import "github.com/mark3labs/mcp-go/mcp"

var searchKnowledgeBaseTool = mcp.NewTool("search_knowledge_base",
	mcp.WithDescription("Search the built-in study knowledge base. Returns the best matching entries with summaries and key points."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search query, Chinese or English"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 3)"),
	),
)

var webSearchTool = mcp.NewTool("web_search",
	mcp.WithDescription("Search the web through the DuckDuckGo instant answer API."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 3)"),
	),
)

var askTool = mcp.NewTool("ask",
	mcp.WithDescription("Ask the study assistant a question, optionally enriched with knowledge base or web search context."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithArray("tools",
		mcp.Description("Enrichment tools to apply"),
		mcp.WithStringEnumItems([]string{"knowledge-base", "web-search", "deep-analyze"}),
	),
	mcp.WithString("model",
		mcp.Description("Model override"),
	),
)

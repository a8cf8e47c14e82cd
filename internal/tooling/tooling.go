// Package tooling augments a conversation with per-request enrichment before
// it is sent to a completion backend.
package tooling

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Xu-Jack11/aipartner/internal/knowledge"
	"github.com/Xu-Jack11/aipartner/internal/llm"
	"github.com/Xu-Jack11/aipartner/internal/websearch"
)

const (
	knowledgeLabel = "知识库检索结果：\n"
	webSearchLabel = "联网搜索结果：\n"

	materialsIntro   = "请结合以下补充材料回答用户问题。"
	materialsOutro   = "如资料存在冲突，请说明你的判断依据。"
	instructionJoint = "\n\n"

	// DeepThinkingInstruction is merged into the system guidance when the
	// deep-analyze tool is requested.
	DeepThinkingInstruction = "请开启深度思考模式：先拆解问题的关键要素，再逐步推理并展示分析过程，最后给出结论，并指出其中可能存在的不确定性或需要进一步验证的地方。"
)

// Enrichment outcomes reported to an EnrichmentRecorder.
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// ContextFunc produces a rendered context block for query. The bool is false
// when there is nothing to add.
type ContextFunc func(ctx context.Context, query string) (string, bool, error)

// EnrichmentRecorder receives the outcome of every enrichment attempt.
type EnrichmentRecorder interface {
	ObserveEnrichment(tool string, outcome string)
}

// KnowledgeSource adapts a knowledge base to a ContextFunc.
func KnowledgeSource(kb *knowledge.Base, limit int) ContextFunc {
	return func(_ context.Context, query string) (string, bool, error) {
		out, ok := kb.BuildContext(query, limit)
		return out, ok, nil
	}
}

// WebSearchSource adapts a web search client to a ContextFunc.
func WebSearchSource(c *websearch.Client, limit int) ContextFunc {
	return func(ctx context.Context, query string) (string, bool, error) {
		return c.BuildContext(ctx, query, limit)
	}
}

// Preparer merges knowledge-base results, web search results and the
// deep-analysis instruction into a request's system guidance.
type Preparer struct {
	knowledge ContextFunc
	webSearch ContextFunc
	logger    zerolog.Logger
	recorder  EnrichmentRecorder
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithRecorder reports enrichment outcomes to r.
func WithRecorder(r EnrichmentRecorder) Option {
	return func(p *Preparer) { p.recorder = r }
}

// New creates a Preparer. A nil source disables the corresponding tool.
func New(knowledge, webSearch ContextFunc, logger zerolog.Logger, opts ...Option) *Preparer {
	p := &Preparer{
		knowledge: knowledge,
		webSearch: webSearch,
		logger:    logger.With().Str("component", "tooling").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ llm.Preparer = (*Preparer)(nil)

type enricher struct {
	tool   llm.ToolName
	label  string
	source ContextFunc
}

// Prepare returns the messages to send for req. The caller's slice is never
// modified. Enrichment failures are logged and otherwise ignored.
func (p *Preparer) Prepare(ctx context.Context, req llm.CompletionRequest) []llm.Message {
	messages := llm.CloneMessages(req.Messages)
	if len(req.Tools) == 0 {
		return messages
	}

	query, ok := lastUserContent(req.Messages)
	if !ok {
		return messages
	}

	var instructions []string
	if sections := p.gatherSections(ctx, req, query); len(sections) > 0 {
		parts := append([]string{materialsIntro}, sections...)
		parts = append(parts, materialsOutro)
		instructions = append(instructions, strings.Join(parts, instructionJoint))
	}
	if req.HasTool(llm.ToolDeepAnalyze) {
		instructions = append(instructions, DeepThinkingInstruction)
	}
	if len(instructions) == 0 {
		return messages
	}

	messages = mergeInstructions(messages, strings.Join(instructions, instructionJoint))
	p.logger.Debug().Str("tools", joinTools(req.Tools)).Msg("tooling instructions applied")
	return messages
}

// gatherSections runs the requested enrichers concurrently and returns their
// labelled output in knowledge-base, web-search order.
func (p *Preparer) gatherSections(ctx context.Context, req llm.CompletionRequest, query string) []string {
	var active []enricher
	if req.HasTool(llm.ToolKnowledgeBase) && p.knowledge != nil {
		active = append(active, enricher{llm.ToolKnowledgeBase, knowledgeLabel, p.knowledge})
	}
	if req.HasTool(llm.ToolWebSearch) && p.webSearch != nil {
		active = append(active, enricher{llm.ToolWebSearch, webSearchLabel, p.webSearch})
	}
	if len(active) == 0 {
		return nil
	}

	slots := make([]string, len(active))
	var wg sync.WaitGroup
	for i, e := range active {
		wg.Add(1)
		go func(i int, e enricher) {
			defer wg.Done()
			out, ok, err := runSource(ctx, e.source, query)
			switch {
			case err != nil:
				p.logger.Warn().Err(err).Str("tool", string(e.tool)).Msg("enrichment failed")
				p.observe(e.tool, OutcomeError)
			case !ok || out == "":
				p.observe(e.tool, OutcomeEmpty)
			default:
				slots[i] = e.label + out
				p.observe(e.tool, OutcomeHit)
			}
		}(i, e)
	}
	wg.Wait()

	sections := make([]string, 0, len(slots))
	for _, s := range slots {
		if s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// runSource calls fn, converting a panic into an error.
func runSource(ctx context.Context, fn ContextFunc, query string) (out string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, query)
}

func (p *Preparer) observe(tool llm.ToolName, outcome string) {
	if p.recorder != nil {
		p.recorder.ObserveEnrichment(string(tool), outcome)
	}
}

func lastUserContent(messages []llm.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}

// mergeInstructions appends instruction to the first system message, or
// prepends a new system message when there is none.
func mergeInstructions(messages []llm.Message, instruction string) []llm.Message {
	for i := range messages {
		if messages[i].Role == llm.RoleSystem {
			messages[i].Content = messages[i].Content + instructionJoint + instruction
			return messages
		}
	}
	return append([]llm.Message{{Role: llm.RoleSystem, Content: instruction}}, messages...)
}

func joinTools(tools []llm.ToolName) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

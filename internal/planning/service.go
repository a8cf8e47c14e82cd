// Package planning turns a study conversation into a learning plan with
// ordered tasks.
package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Xu-Jack11/aipartner/internal/dialogue"
	"github.com/Xu-Jack11/aipartner/internal/llm"
)

const promptTemplate = `你是一个专业的学习规划助手。请根据以下对话内容，生成一个结构化的学习计划。

对话内容：
%s

请以JSON格式返回学习计划，包含以下字段：
{
  "title": "学习计划标题",
  "focus": "学习重点领域",
  "tasks": [
    {
      "summary": "任务描述",
      "dueDate": "可选的截止日期(ISO 8601格式)"
    }
  ]
}

要求：
1. 标题应简洁明了，概括学习主题
2. 重点领域应总结核心知识点
3. 任务列表应按学习顺序排列，每个任务应具体可执行
4. 如果对话中提到时间要求，设置合理的截止日期
5. 任务数量建议3-8个，确保可行性`

// DefaultTasks are used when the model's answer cannot be parsed and the
// caller supplied no suggestions.
var DefaultTasks = []TaskSuggestion{
	{Summary: "回顾对话内容，整理学习要点"},
	{Summary: "深入研究关键知识点"},
	{Summary: "实践应用所学知识"},
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// SessionReader loads a session with its messages.
type SessionReader interface {
	GetSession(ctx context.Context, userID, sessionID string) (*dialogue.Session, error)
}

// Service generates and manages learning plans.
type Service struct {
	store    *Store
	sessions SessionReader
	provider llm.Provider
	logger   zerolog.Logger
}

// NewService creates a planning service.
func NewService(store *Store, sessions SessionReader, provider llm.Provider, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		provider: provider,
		logger:   logger.With().Str("component", "planning").Logger(),
	}
}

// BuildPrompt renders the planning instruction for a conversation.
func BuildPrompt(messages []dialogue.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(lines, "\n"))
}

// parseDraft extracts the outermost JSON object from a model answer.
func parseDraft(content string) (*draft, error) {
	raw := jsonObject.FindString(content)
	if raw == "" {
		return nil, errors.New("no JSON object in response")
	}
	var d draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	d.Tasks = withSummaries(d.Tasks)
	if strings.TrimSpace(d.Title) == "" || len(d.Tasks) == 0 {
		return nil, errors.New("plan has no title or tasks")
	}
	return &d, nil
}

// withSummaries drops tasks whose summary is blank.
func withSummaries(tasks []TaskSuggestion) []TaskSuggestion {
	kept := make([]TaskSuggestion, 0, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.Summary) != "" {
			kept = append(kept, t)
		}
	}
	return kept
}

func fallbackDraft(focus string, suggestions []TaskSuggestion) *draft {
	tasks := withSummaries(suggestions)
	if len(tasks) == 0 {
		tasks = DefaultTasks
	}
	return &draft{
		Title: focus + "学习计划",
		Focus: focus,
		Tasks: tasks,
	}
}

// parseDueDate accepts RFC 3339 timestamps and plain dates. Anything else
// leaves the task without a due date.
func parseDueDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// GenerateFromSession asks the provider for a plan covering the given
// session and stores it. Provider failures are returned as is; an answer
// that is not a usable plan falls back to a default plan.
func (s *Service) GenerateFromSession(ctx context.Context, userID string, in GenerateInput) (*Plan, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId is required", dialogue.ErrInvalidInput)
	}
	sess, err := s.sessions.GetSession(ctx, userID, in.SessionID)
	if err != nil {
		return nil, err
	}

	req := llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleSystem, Content: BuildPrompt(sess.Messages)}},
		Model:    in.Model,
	}
	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("session", sess.ID).Str("provider", s.provider.Name()).Msg("plan completion failed")
		return nil, err
	}

	d, err := parseDraft(resp.Content)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("using fallback plan")
		d = fallbackDraft(sess.Focus, in.TaskSuggestions)
	}
	focus := strings.TrimSpace(d.Focus)
	if focus == "" {
		focus = sess.Focus
	}

	plan := Plan{
		UserID:    userID,
		SessionID: sess.ID,
		Title:     strings.TrimSpace(d.Title),
		Focus:     focus,
	}
	for _, t := range d.Tasks {
		plan.Tasks = append(plan.Tasks, Task{Summary: strings.TrimSpace(t.Summary), DueDate: parseDueDate(t.DueDate)})
	}

	created, err := s.store.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("plan", created.ID).Int("tasks", len(created.Tasks)).Msg("plan generated")
	return created, nil
}

// ListPlans returns userID's plans, newest first.
func (s *Service) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	plans, err := s.store.ListPlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []Plan{}
	}
	return plans, nil
}

func (s *Service) owned(ctx context.Context, userID, planID string) (*Plan, error) {
	p, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

// GetPlan returns a plan owned by userID.
func (s *Service) GetPlan(ctx context.Context, userID, planID string) (*Plan, error) {
	return s.owned(ctx, userID, planID)
}

// UpdateTaskStatus moves a task to status and returns the updated plan.
func (s *Service) UpdateTaskStatus(ctx context.Context, userID, planID, taskID, status string) (*Plan, error) {
	switch status {
	case TaskTodo, TaskInProgress, TaskDone:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if _, err := s.owned(ctx, userID, planID); err != nil {
		return nil, err
	}
	found, err := s.store.SetTaskStatus(ctx, planID, taskID, status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrTaskNotFound
	}
	return s.store.GetPlan(ctx, planID)
}

// DeletePlan removes a plan owned by userID.
func (s *Service) DeletePlan(ctx context.Context, userID, planID string) error {
	if _, err := s.owned(ctx, userID, planID); err != nil {
		return err
	}
	return s.store.DeletePlan(ctx, planID)
}

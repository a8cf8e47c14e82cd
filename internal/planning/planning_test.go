package planning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Xu-Jack11/aipartner/internal/db"
	"github.com/Xu-Jack11/aipartner/internal/dialogue"
	"github.com/Xu-Jack11/aipartner/internal/llm"
)

type fixedProvider struct {
	reply    string
	err      error
	requests []llm.CompletionRequest
}

func (p *fixedProvider) Name() string { return "fixed" }

func (p *fixedProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResult{Content: p.reply}, nil
}

func (p *fixedProvider) ListModels(context.Context) []llm.ModelInfo { return nil }

type fixture struct {
	svc       *Service
	sessionID string
}

func setup(t *testing.T, provider llm.Provider) fixture {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	dialogues := dialogue.NewService(dialogue.NewStore(database), provider, zerolog.Nop())
	ctx := context.Background()
	sess, err := dialogues.CreateSession(ctx, "u1", dialogue.CreateSessionInput{Title: "线代", Focus: "矩阵运算"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	store := dialogues.Store()
	for _, m := range []dialogue.Message{
		{SessionID: sess.ID, Role: llm.RoleUser, Content: "怎么求逆矩阵"},
		{SessionID: sess.ID, Role: llm.RoleAssistant, Content: "可以用初等变换"},
	} {
		if _, err := store.AddMessage(ctx, m); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	return fixture{
		svc:       NewService(NewStore(database), dialogues, provider, zerolog.Nop()),
		sessionID: sess.ID,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]dialogue.Message{
		{Role: llm.RoleUser, Content: "你好"},
		{Role: llm.RoleAssistant, Content: "你好！"},
	})
	if !strings.HasPrefix(prompt, "你是一个专业的学习规划助手。") {
		t.Errorf("unexpected prompt start: %q", prompt[:30])
	}
	if !strings.Contains(prompt, "对话内容：\nuser: 你好\nassistant: 你好！\n\n请以JSON格式返回学习计划") {
		t.Errorf("transcript not embedded: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "5. 任务数量建议3-8个，确保可行性") {
		t.Error("requirements list missing")
	}
}

func TestGenerateFromModelAnswer(t *testing.T) {
	provider := &fixedProvider{reply: "好的，计划如下：\n```json\n" +
		`{"title":"矩阵入门","focus":"逆矩阵","tasks":[{"summary":"复习行列式","dueDate":"2026-11-01"},{"summary":"练习初等变换","dueDate":"2026-11-05T08:00:00Z"},{"summary":"做习题","dueDate":"soon"}]}` +
		"\n```"}
	f := setup(t, provider)

	plan, err := f.svc.GenerateFromSession(context.Background(), "u1", GenerateInput{SessionID: f.sessionID, Model: "deepseek-chat"})
	if err != nil {
		t.Fatalf("GenerateFromSession: %v", err)
	}
	if plan.Title != "矩阵入门" || plan.Focus != "逆矩阵" {
		t.Errorf("got title %q focus %q", plan.Title, plan.Focus)
	}
	if plan.TargetSteps != 3 || plan.CompletedSteps != 0 || plan.Status != "active" {
		t.Errorf("unexpected counters: %+v", plan)
	}
	if len(plan.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(plan.Tasks))
	}
	if plan.Tasks[0].DueDate == nil || plan.Tasks[0].DueDate.Format("2006-01-02") != "2026-11-01" {
		t.Errorf("date-only due date not parsed: %v", plan.Tasks[0].DueDate)
	}
	if plan.Tasks[1].DueDate == nil || plan.Tasks[1].DueDate.Hour() != 8 {
		t.Errorf("RFC 3339 due date not parsed: %v", plan.Tasks[1].DueDate)
	}
	if plan.Tasks[2].DueDate != nil {
		t.Errorf("unparsable due date should be dropped, got %v", plan.Tasks[2].DueDate)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(provider.requests))
	}
	req := provider.requests[0]
	if req.Model != "deepseek-chat" || len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleSystem {
		t.Errorf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.Messages[0].Content, "user: 怎么求逆矩阵\nassistant: 可以用初等变换") {
		t.Errorf("transcript missing from prompt")
	}

	stored, err := f.svc.GetPlan(context.Background(), "u1", plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if len(stored.Tasks) != 3 || stored.Tasks[0].Summary != "复习行列式" || stored.Tasks[2].Summary != "做习题" {
		t.Errorf("tasks not stored in order: %+v", stored.Tasks)
	}
	if stored.SessionID != f.sessionID {
		t.Errorf("session id = %q", stored.SessionID)
	}
}

func TestGenerateFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		suggestions []TaskSuggestion
		want        []string
	}{
		{"no json", "抱歉，我无法生成计划", nil,
			[]string{"回顾对话内容，整理学习要点", "深入研究关键知识点", "实践应用所学知识"}},
		{"broken json", `{"title": "x", "tasks": [}`, nil,
			[]string{"回顾对话内容，整理学习要点", "深入研究关键知识点", "实践应用所学知识"}},
		{"no tasks", `{"title":"空计划","focus":"f","tasks":[]}`, []TaskSuggestion{{Summary: "自定义任务"}},
			[]string{"自定义任务"}},
		{"blank summaries", `{"title":"空白计划","focus":"f","tasks":[{"summary":"  "},{"summary":""}]}`, nil,
			[]string{"回顾对话内容，整理学习要点", "深入研究关键知识点", "实践应用所学知识"}},
		{"blank suggestions", "没有计划", []TaskSuggestion{{Summary: " "}},
			[]string{"回顾对话内容，整理学习要点", "深入研究关键知识点", "实践应用所学知识"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, &fixedProvider{reply: tt.reply})
			plan, err := f.svc.GenerateFromSession(context.Background(), "u1",
				GenerateInput{SessionID: f.sessionID, TaskSuggestions: tt.suggestions})
			if err != nil {
				t.Fatalf("GenerateFromSession: %v", err)
			}
			if plan.Title != "矩阵运算学习计划" || plan.Focus != "矩阵运算" {
				t.Errorf("got title %q focus %q", plan.Title, plan.Focus)
			}
			if len(plan.Tasks) != len(tt.want) {
				t.Fatalf("expected %d tasks, got %d", len(tt.want), len(plan.Tasks))
			}
			for i, w := range tt.want {
				if plan.Tasks[i].Summary != w {
					t.Errorf("task %d = %q, want %q", i, plan.Tasks[i].Summary, w)
				}
			}
			if plan.TargetSteps != len(tt.want) {
				t.Errorf("targetSteps = %d", plan.TargetSteps)
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()

	perr := &llm.ProviderError{Provider: "fixed", StatusCode: 500, Body: "boom"}
	f := setup(t, &fixedProvider{err: perr})
	if _, err := f.svc.GenerateFromSession(ctx, "u1", GenerateInput{SessionID: f.sessionID}); !errors.Is(err, perr) {
		t.Errorf("expected provider error, got %v", err)
	}
	plans, _ := f.svc.ListPlans(ctx, "u1")
	if len(plans) != 0 {
		t.Errorf("no plan should be stored on provider failure, got %d", len(plans))
	}

	if _, err := f.svc.GenerateFromSession(ctx, "other", GenerateInput{SessionID: f.sessionID}); !errors.Is(err, dialogue.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for foreign session, got %v", err)
	}
	if _, err := f.svc.GenerateFromSession(ctx, "u1", GenerateInput{}); !errors.Is(err, dialogue.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput without session id, got %v", err)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	f := setup(t, &fixedProvider{reply: "none"})
	plan, err := f.svc.GenerateFromSession(ctx, "u1", GenerateInput{SessionID: f.sessionID})
	if err != nil {
		t.Fatalf("GenerateFromSession: %v", err)
	}
	taskID := plan.Tasks[0].ID

	updated, err := f.svc.UpdateTaskStatus(ctx, "u1", plan.ID, taskID, TaskDone)
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if updated.CompletedSteps != 1 || updated.Tasks[0].Status != TaskDone || updated.Tasks[0].CompletedAt == nil {
		t.Errorf("done transition not applied: %+v", updated)
	}

	// Repeating the same status does not count twice.
	updated, _ = f.svc.UpdateTaskStatus(ctx, "u1", plan.ID, taskID, TaskDone)
	if updated.CompletedSteps != 1 {
		t.Errorf("completedSteps = %d after repeat", updated.CompletedSteps)
	}

	updated, err = f.svc.UpdateTaskStatus(ctx, "u1", plan.ID, taskID, TaskInProgress)
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if updated.CompletedSteps != 0 || updated.Tasks[0].CompletedAt != nil {
		t.Errorf("reopen not applied: %+v", updated)
	}

	if _, err := f.svc.UpdateTaskStatus(ctx, "u1", plan.ID, taskID, "blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := f.svc.UpdateTaskStatus(ctx, "u1", plan.ID, "missing", TaskDone); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateTaskStatus(ctx, "u2", plan.ID, taskID, TaskDone); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound for other user, got %v", err)
	}
}

func TestListAndDeletePlans(t *testing.T) {
	ctx := context.Background()
	f := setup(t, &fixedProvider{reply: "none"})

	first, _ := f.svc.GenerateFromSession(ctx, "u1", GenerateInput{SessionID: f.sessionID})
	second, _ := f.svc.GenerateFromSession(ctx, "u1", GenerateInput{SessionID: f.sessionID})

	plans, err := f.svc.ListPlans(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 2 || plans[0].ID != second.ID || plans[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", plans)
	}
	if len(plans[0].Tasks) != 3 {
		t.Errorf("list should include tasks, got %d", len(plans[0].Tasks))
	}

	others, _ := f.svc.ListPlans(ctx, "u2")
	if others == nil || len(others) != 0 {
		t.Errorf("expected empty non-nil list for other user, got %v", others)
	}

	if err := f.svc.DeletePlan(ctx, "u2", first.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
	if err := f.svc.DeletePlan(ctx, "u1", first.ID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if _, err := f.svc.GetPlan(ctx, "u1", first.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("deleted plan still readable: %v", err)
	}
}

func TestRoutes(t *testing.T) {
	f := setup(t, &fixedProvider{reply: `{"title":"T","focus":"F","tasks":[{"summary":"a"}]}`})
	r := chi.NewRouter()
	RegisterRoutes(r, f.svc)

	body, _ := json.Marshal(GenerateInput{SessionID: f.sessionID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/generate", bytes.NewReader(body))
	req.Header.Set(dialogue.UserHeader, "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("generate: status %d body %s", w.Code, w.Body.String())
	}
	var plan Plan
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("decoding plan: %v", err)
	}

	patch := httptest.NewRequest(http.MethodPatch, "/api/v1/plans/"+plan.ID+"/tasks/"+plan.Tasks[0].ID,
		strings.NewReader(`{"status":"done"}`))
	patch.Header.Set(dialogue.UserHeader, "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, patch)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", w.Code, w.Body.String())
	}
	var updated map[string]any
	json.NewDecoder(w.Body).Decode(&updated)
	if updated["completedSteps"] != float64(1) {
		t.Errorf("completedSteps = %v", updated["completedSteps"])
	}

	// Anonymous callers do not see u1's plans.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+plan.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("get as anonymous: status %d", w.Code)
	}

	bad := httptest.NewRequest(http.MethodPatch, "/api/v1/plans/"+plan.ID+"/tasks/"+plan.Tasks[0].ID,
		strings.NewReader(`{"status":"later"}`))
	bad.Header.Set(dialogue.UserHeader, "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status: got %d", w.Code)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/plans/"+plan.ID, nil)
	del.Header.Set(dialogue.UserHeader, "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, del)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/plans/generate", strings.NewReader("{")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status %d", w.Code)
	}
}

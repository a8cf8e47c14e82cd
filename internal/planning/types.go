package planning

import (
	"errors"
	"time"
)

// Task statuses.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

var (
	// ErrPlanNotFound is returned when a plan does not exist or is owned by
	// another user.
	ErrPlanNotFound = errors.New("学习计划不存在")
	// ErrTaskNotFound is returned when a task is not part of the plan.
	ErrTaskNotFound = errors.New("任务不存在")
	// ErrInvalidStatus is returned for an unknown task status.
	ErrInvalidStatus = errors.New("invalid task status")
)

// Plan is a learning plan with ordered tasks.
type Plan struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	SessionID      string    `json:"sessionId,omitempty"`
	Title          string    `json:"title"`
	Focus          string    `json:"focus"`
	Status         string    `json:"status"`
	TargetSteps    int       `json:"targetSteps"`
	CompletedSteps int       `json:"completedSteps"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Tasks          []Task    `json:"tasks"`
}

// Task is one step of a plan.
type Task struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TaskSuggestion is a proposed task, either from the model or the caller.
type TaskSuggestion struct {
	Summary string `json:"summary"`
	DueDate string `json:"dueDate,omitempty"`
}

// GenerateInput is the payload for generating a plan from a session.
type GenerateInput struct {
	SessionID       string           `json:"sessionId"`
	TaskSuggestions []TaskSuggestion `json:"taskSuggestions,omitempty"`
	Model           string           `json:"model,omitempty"`
}

// draft is the plan shape the model is asked to return.
type draft struct {
	Title string           `json:"title"`
	Focus string           `json:"focus"`
	Tasks []TaskSuggestion `json:"tasks"`
}

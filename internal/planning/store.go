package planning

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Xu-Jack11/aipartner/internal/db"
)

// Store manages persistence of plans and tasks.
type Store struct {
	db *db.DB
}

// NewStore creates a new planning store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreatePlan inserts p and its tasks in one transaction. IDs and timestamps
// are assigned here.
func (s *Store) CreatePlan(ctx context.Context, p Plan) (*Plan, error) {
	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = "active"
	}
	p.TargetSteps = len(p.Tasks)

	var sessionID any
	if p.SessionID != "" {
		sessionID = p.SessionID
	}

	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO learning_plans (id, user_id, session_id, title, focus, target_steps, completed_steps, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.UserID, sessionID, p.Title, p.Focus, p.TargetSteps, p.CompletedSteps, p.Status, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting plan: %w", err)
		}

		for i := range p.Tasks {
			t := &p.Tasks[i]
			t.ID = uuid.New().String()
			if t.Status == "" {
				t.Status = TaskTodo
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO plan_tasks (id, plan_id, position, summary, status, due_date, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				t.ID, p.ID, i, t.Summary, t.Status, nullableTime(t.DueDate), now,
			)
			if err != nil {
				return fmt.Errorf("inserting task: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlan retrieves a plan with its tasks. It returns nil when the plan
// does not exist.
func (s *Store) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var p Plan
	var sessionID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_id, title, focus, status, target_steps, completed_steps, created_at, updated_at
		 FROM learning_plans WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &sessionID, &p.Title, &p.Focus, &p.Status, &p.TargetSteps, &p.CompletedSteps, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	p.SessionID = sessionID.String

	if p.Tasks, err = s.tasks(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlans returns the plans of userID, newest first.
func (s *Store) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, title, focus, status, target_steps, completed_steps, created_at, updated_at
		 FROM learning_plans WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}

	var plans []Plan
	for rows.Next() {
		var p Plan
		var sessionID sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &sessionID, &p.Title, &p.Focus, &p.Status, &p.TargetSteps, &p.CompletedSteps, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		p.SessionID = sessionID.String
		plans = append(plans, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Tasks are loaded after the plan cursor is closed; the in-memory
	// database has a single connection.
	for i := range plans {
		if plans[i].Tasks, err = s.tasks(ctx, plans[i].ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (s *Store) tasks(ctx context.Context, planID string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, summary, status, due_date, completed_at
		 FROM plan_tasks WHERE plan_id = ? ORDER BY position ASC`, planID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var due, completed sql.NullTime
		if err := rows.Scan(&t.ID, &t.Summary, &t.Status, &due, &completed); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if due.Valid {
			t.DueDate = &due.Time
		}
		if completed.Valid {
			t.CompletedAt = &completed.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTaskStatus updates a task's status and keeps the plan's completed step
// count in sync. It reports false when the task is not part of the plan.
func (s *Store) SetTaskStatus(ctx context.Context, planID, taskID, status string) (bool, error) {
	found := false
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM plan_tasks WHERE id = ? AND plan_id = ?`, taskID, planID,
		).Scan(&current)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting task: %w", err)
		}
		found = true

		now := time.Now().UTC()
		var completedAt any
		if status == TaskDone {
			completedAt = now
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE plan_tasks SET status = ?, completed_at = ? WHERE id = ?`, status, completedAt, taskID,
		); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		delta := 0
		switch {
		case current != TaskDone && status == TaskDone:
			delta = 1
		case current == TaskDone && status != TaskDone:
			delta = -1
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE learning_plans SET completed_steps = completed_steps + ?, updated_at = ? WHERE id = ?`, delta, now, planID,
		); err != nil {
			return fmt.Errorf("updating plan: %w", err)
		}
		return nil
	})
	return found, err
}

// DeletePlan removes a plan and its tasks.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM plan_tasks WHERE plan_id = ?`, id); err != nil {
			return fmt.Errorf("deleting tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM learning_plans WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting plan: %w", err)
		}
		return nil
	})
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

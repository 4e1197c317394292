package domain

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview,
		TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// Comment is embedded in its task; comments have no independent lifecycle.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is the atomic unit of trackable work. Comments and AI suggestions are
// owned by the task and kept in append order. Dependencies reference tasks in
// the same project.
type Task struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	ProjectID      string       `json:"project_id"`
	CreatedBy      string       `json:"created_by"`
	AssignedTo     string       `json:"assigned_to,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       Priority     `json:"priority"`
	Deadline       *time.Time   `json:"deadline,omitempty"`
	EstimatedHours float64      `json:"estimated_hours,omitempty"`
	ActualHours    float64      `json:"actual_hours,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Comments       []Comment    `json:"comments"`
	Suggestions    []Suggestion `json:"ai_suggestions"`
	ParentID       string       `json:"parent_task,omitempty"`
	Dependencies   []string     `json:"dependencies"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskStatusCompleted
}

// IsOverdue is computed on every read, never stored. A completed task is
// never overdue regardless of its deadline.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.Deadline == nil || t.Status == TaskStatusCompleted {
		return false
	}
	return t.Deadline.Before(now)
}

// DependsOn reports whether taskID is already in the dependency set.
func (t *Task) DependsOn(taskID string) bool {
	if t == nil {
		return false
	}
	for _, dep := range t.Dependencies {
		if dep == taskID {
			return true
		}
	}
	return false
}

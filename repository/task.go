package repository

import (
	"context"
	"time"

	"github.com/ayush17112005/TaskWiseAI/domain"
)

// TaskSort selects the ordering of List results.
type TaskSort string

const (
	TaskSortCreatedDesc TaskSort = "created_desc"
	TaskSortUpdatedDesc TaskSort = "updated_desc"
	TaskSortDeadlineAsc TaskSort = "deadline_asc"
)

type TaskFilter struct {
	ProjectIDs []string
	ProjectID  string
	AssigneeID string
	CreatorID  string
	Assigned   bool // only tasks with an assignee
	Status     domain.TaskStatus
	Priority   domain.Priority
	Overdue    bool // deadline < now and not completed, evaluated at query time
	Tags       []string
	Search     string
	// CompletedSince keeps only tasks whose last update is at or after the
	// given instant; used with Status=completed for trend queries.
	CompletedSince time.Time
	Sort           TaskSort
	Limit          int
	Offset         int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// Delete cascades: removes every task whose parent is id, strips id from
	// all dependency sets, then removes the task itself, in that order.
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, taskID string, comment domain.Comment) error
	AppendSuggestion(ctx context.Context, taskID string, suggestion domain.Suggestion) error
	AddDependency(ctx context.Context, taskID, dependencyID string) error
	RemoveDependency(ctx context.Context, taskID, dependencyID string) error
	CountByCreator(ctx context.Context, userID string) (int, error)
}

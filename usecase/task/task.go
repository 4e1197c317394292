// Package task implements the task graph: CRUD with membership checks,
// parent/child links, dependency edges, embedded comments, and the
// notifications that assignment, completion and commenting emit.
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
	"github.com/ayush17112005/TaskWiseAI/usecase/notification"
)

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	teams    repository.TeamRepository
	gate     *authz.Gate
	notifier *notification.UseCase
	logger   *zap.Logger
	now      func() time.Time
}

func New(tasks repository.TaskRepository, projects repository.ProjectRepository, teams repository.TeamRepository, gate *authz.Gate, notifier *notification.UseCase, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		teams:    teams,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateInput struct {
	Title          string
	Description    string
	ProjectID      string
	AssignedTo     string
	Status         domain.TaskStatus
	Priority       domain.Priority
	Deadline       *time.Time
	EstimatedHours float64
	Tags           []string
	ParentID       string
}

// Create adds a task to a project. The assignee, when given, must be a member
// of the owning team; the parent task, when given, must live in the same
// project.
func (uc *UseCase) Create(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	project, err := uc.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	team, _, err := uc.gate.Require(ctx, userID, project.TeamID)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
	}
	if in.Status == "" {
		in.Status = domain.TaskStatusTodo
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Status.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task status")
	}
	if !in.Priority.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task priority")
	}
	if in.EstimatedHours < 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "estimated hours must be non-negative")
	}
	if in.AssignedTo != "" && !team.HasMember(in.AssignedTo) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "assignee is not a member of the project's team")
	}
	if in.ParentID != "" {
		parent, err := uc.tasks.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != in.ProjectID {
			return nil, domain.NewError(domain.ErrCodeInvalid, "parent task belongs to a different project")
		}
	}

	now := uc.now()
	task := &domain.Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    strings.TrimSpace(in.Description),
		ProjectID:      in.ProjectID,
		CreatedBy:      userID,
		AssignedTo:     in.AssignedTo,
		Status:         in.Status,
		Priority:       in.Priority,
		Deadline:       in.Deadline,
		EstimatedHours: in.EstimatedHours,
		Tags:           normalizeTags(in.Tags),
		Comments:       []domain.Comment{},
		Suggestions:    []domain.Suggestion{},
		Dependencies:   []string{},
		ParentID:       in.ParentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	if created.AssignedTo != "" && created.AssignedTo != userID {
		uc.notifier.Emit(ctx, domain.Notification{
			UserID:    created.AssignedTo,
			Kind:      domain.NotificationTaskAssigned,
			Title:     "New task assigned",
			Message:   fmt.Sprintf("You have been assigned the task %q", created.Title),
			TaskID:    created.ID,
			ProjectID: created.ProjectID,
		})
	}
	uc.logger.Info("task created",
		zap.String("task_id", created.ID), zap.String("project_id", created.ProjectID))
	return created, nil
}

// Get returns the task together with its direct subtasks. Any member of the
// owning team may read it.
func (uc *UseCase) Get(ctx context.Context, userID, taskID string) (*domain.Task, []domain.Task, error) {
	task, _, err := uc.authorizeTask(ctx, userID, taskID)
	if err != nil {
		return nil, nil, err
	}
	subtasks, err := uc.tasks.ListByParent(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return task, subtasks, nil
}

type ListInput struct {
	ProjectID  string
	AssigneeID string
	Status     domain.TaskStatus
	Priority   domain.Priority
	Overdue    bool
	Tags       []string
	Search     string
	Sort       repository.TaskSort
	Limit      int
	Offset     int
}

// List returns tasks across all projects of the caller's teams, or within one
// project when ProjectID is set.
func (uc *UseCase) List(ctx context.Context, userID string, in ListInput) ([]domain.Task, int, error) {
	filter := repository.TaskFilter{
		AssigneeID: in.AssigneeID,
		Status:     in.Status,
		Priority:   in.Priority,
		Overdue:    in.Overdue,
		Tags:       in.Tags,
		Search:     in.Search,
		Sort:       in.Sort,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.ProjectID != "" {
		project, err := uc.projects.GetByID(ctx, in.ProjectID)
		if err != nil {
			return nil, 0, err
		}
		if _, _, err := uc.gate.Require(ctx, userID, project.TeamID); err != nil {
			return nil, 0, err
		}
		filter.ProjectID = in.ProjectID
	} else {
		projectIDs, err := uc.visibleProjectIDs(ctx, userID)
		if err != nil {
			return nil, 0, err
		}
		if len(projectIDs) == 0 {
			return []domain.Task{}, 0, nil
		}
		filter.ProjectIDs = projectIDs
	}
	return uc.tasks.List(ctx, filter)
}

// MyAssigned lists tasks assigned to the caller.
func (uc *UseCase) MyAssigned(ctx context.Context, userID string, status domain.TaskStatus, limit, offset int) ([]domain.Task, int, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{
		AssigneeID: userID,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
}

// MyCreated lists tasks the caller created.
func (uc *UseCase) MyCreated(ctx context.Context, userID string, status domain.TaskStatus, limit, offset int) ([]domain.Task, int, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{
		CreatorID: userID,
		Status:    status,
		Limit:     limit,
		Offset:    offset,
	})
}

type UpdateInput struct {
	Title          *string
	Description    *string
	AssignedTo     *string
	Status         *domain.TaskStatus
	Priority       *domain.Priority
	Deadline       *time.Time
	ClearDeadline  bool
	EstimatedHours *float64
	ActualHours    *float64
	Tags           []string
}

// Update applies a partial update. Changing the assignee re-validates team
// membership and notifies the new assignee; a transition to completed
// notifies the task's creator.
func (uc *UseCase) Update(ctx context.Context, userID, taskID string, in UpdateInput) (*domain.Task, error) {
	task, team, err := uc.authorizeTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	prevAssignee := task.AssignedTo
	prevStatus := task.Status

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.AssignedTo != nil {
		if *in.AssignedTo != "" && !team.HasMember(*in.AssignedTo) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "assignee is not a member of the project's team")
		}
		task.AssignedTo = *in.AssignedTo
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task status")
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.IsValid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task priority")
		}
		task.Priority = *in.Priority
	}
	if in.ClearDeadline {
		task.Deadline = nil
	} else if in.Deadline != nil {
		task.Deadline = in.Deadline
	}
	if in.EstimatedHours != nil {
		if *in.EstimatedHours < 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "estimated hours must be non-negative")
		}
		task.EstimatedHours = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		if *in.ActualHours < 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "actual hours must be non-negative")
		}
		task.ActualHours = *in.ActualHours
	}
	if in.Tags != nil {
		task.Tags = normalizeTags(in.Tags)
	}

	task.UpdatedAt = uc.now()
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.AssignedTo != "" && task.AssignedTo != prevAssignee && task.AssignedTo != userID {
		uc.notifier.Emit(ctx, domain.Notification{
			UserID:    task.AssignedTo,
			Kind:      domain.NotificationTaskAssigned,
			Title:     "New task assigned",
			Message:   fmt.Sprintf("You have been assigned the task %q", task.Title),
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
		})
	}
	if task.Status == domain.TaskStatusCompleted && prevStatus != domain.TaskStatusCompleted && task.AssignedTo != "" {
		uc.notifier.Emit(ctx, domain.Notification{
			UserID:    task.CreatedBy,
			Kind:      domain.NotificationTaskCompleted,
			Title:     "Task completed",
			Message:   fmt.Sprintf("The task %q has been completed", task.Title),
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
		})
	}
	return task, nil
}

// Delete removes the task. Allowed for the task's creator or a team
// owner/admin. Children are deleted first and the task's id is stripped from
// every dependency set before the task itself goes.
func (uc *UseCase) Delete(ctx context.Context, userID, taskID string) error {
	task, _, err := uc.authorizeTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	project, err := uc.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	_, member, err := uc.gate.Require(ctx, userID, project.TeamID)
	if err != nil {
		return err
	}
	if task.CreatedBy != userID && !member.Role.CanManageMembers() {
		return domain.NewError(domain.ErrCodeForbidden, "only the task creator or a team admin can delete a task")
	}
	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.String("task_id", taskID))
	return nil
}

// AddComment appends a comment with a server-assigned timestamp and notifies
// the task's creator and assignee, minus the commenter.
func (uc *UseCase) AddComment(ctx context.Context, userID, taskID, content string) (*domain.Task, error) {
	task, _, err := uc.authorizeTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "comment content is required")
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  userID,
		Content:   content,
		CreatedAt: uc.now(),
	}
	if err := uc.tasks.AddComment(ctx, taskID, comment); err != nil {
		return nil, err
	}

	for _, recipient := range commentRecipients(task, userID) {
		uc.notifier.Emit(ctx, domain.Notification{
			UserID:    recipient,
			Kind:      domain.NotificationCommentAdded,
			Title:     "New comment",
			Message:   fmt.Sprintf("New comment on the task %q", task.Title),
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
		})
	}
	return uc.tasks.GetByID(ctx, taskID)
}

// AddDependency records that taskID depends on dependencyID. Both tasks must
// share a project; a duplicate edge is rejected. No cycle detection is
// performed.
func (uc *UseCase) AddDependency(ctx context.Context, userID, taskID, dependencyID string) (*domain.Task, error) {
	task, _, err := uc.authorizeTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if taskID == dependencyID {
		return nil, domain.NewError(domain.ErrCodeInvalid, "a task cannot depend on itself")
	}
	dep, err := uc.tasks.GetByID(ctx, dependencyID)
	if err != nil {
		return nil, err
	}
	if dep.ProjectID != task.ProjectID {
		return nil, domain.NewError(domain.ErrCodeInvalid, "dependency belongs to a different project")
	}
	if task.DependsOn(dependencyID) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "dependency already present")
	}
	if err := uc.tasks.AddDependency(ctx, taskID, dependencyID); err != nil {
		return nil, err
	}
	return uc.tasks.GetByID(ctx, taskID)
}

// RemoveDependency drops the edge if present. Removing an absent edge is not
// an error.
func (uc *UseCase) RemoveDependency(ctx context.Context, userID, taskID, dependencyID string) (*domain.Task, error) {
	if _, _, err := uc.authorizeTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	if err := uc.tasks.RemoveDependency(ctx, taskID, dependencyID); err != nil {
		return nil, err
	}
	return uc.tasks.GetByID(ctx, taskID)
}

// authorizeTask loads the task and verifies the caller belongs to the owning
// team, walking task → project → team.
func (uc *UseCase) authorizeTask(ctx context.Context, userID, taskID string) (*domain.Task, *domain.Team, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	project, err := uc.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	team, _, err := uc.gate.Require(ctx, userID, project.TeamID)
	if err != nil {
		return nil, nil, err
	}
	return task, team, nil
}

func (uc *UseCase) visibleProjectIDs(ctx context.Context, userID string) ([]string, error) {
	teams, _, err := uc.teams.List(ctx, repository.TeamFilter{MemberID: userID})
	if err != nil {
		return nil, err
	}
	var projectIDs []string
	for i := range teams {
		ids, err := uc.projects.ListIDsByTeam(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		projectIDs = append(projectIDs, ids...)
	}
	return projectIDs, nil
}

func commentRecipients(task *domain.Task, commenter string) []string {
	var out []string
	seen := map[string]struct{}{commenter: {}}
	for _, id := range []string{task.CreatedBy, task.AssignedTo} {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

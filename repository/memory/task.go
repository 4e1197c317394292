package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type taskRepo struct {
	s *Store
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *taskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := r.s.now()
	var matched []domain.Task
	for _, task := range r.s.tasks {
		if !taskMatches(task, filter, now) {
			continue
		}
		matched = append(matched, *cloneTask(task))
	}
	sortTasks(matched, filter.Sort)
	total := len(matched)
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *taskRepo) ListByParent(_ context.Context, parentID string) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var children []domain.Task
	for _, task := range r.s.tasks {
		if task.ParentID == parentID {
			children = append(children, *cloneTask(task))
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children, nil
}

func (r *taskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := r.s.now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Comments == nil {
		task.Comments = []domain.Comment{}
	}
	if task.Suggestions == nil {
		task.Suggestions = []domain.Suggestion{}
	}
	if task.Dependencies == nil {
		task.Dependencies = []string{}
	}
	r.s.tasks[task.ID] = cloneTask(task)
	return cloneTask(task), nil
}

func (r *taskRepo) Update(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.ProjectID = existing.ProjectID // immutable after creation
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = r.s.now()
	r.s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	// The task and every descendant go; dependency edges pointing at any
	// deleted task are stripped from the survivors.
	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for taskID, task := range r.s.tasks {
			if !doomed[taskID] && doomed[task.ParentID] {
				doomed[taskID] = true
				changed = true
			}
		}
	}
	for taskID := range doomed {
		delete(r.s.tasks, taskID)
	}
	for _, task := range r.s.tasks {
		deps := task.Dependencies[:0]
		for _, dep := range task.Dependencies {
			if !doomed[dep] {
				deps = append(deps, dep)
			}
		}
		task.Dependencies = deps
	}
	return nil
}

func (r *taskRepo) AddComment(_ context.Context, taskID string, comment domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = r.s.now()
	}
	task.Comments = append(task.Comments, comment)
	task.UpdatedAt = r.s.now()
	return nil
}

func (r *taskRepo) AppendSuggestion(_ context.Context, taskID string, suggestion domain.Suggestion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if suggestion.ID == "" {
		suggestion.ID = uuid.NewString()
	}
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = r.s.now()
	}
	task.Suggestions = append(task.Suggestions, suggestion)
	return nil
}

func (r *taskRepo) AddDependency(_ context.Context, taskID, dependencyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Dependencies = append(task.Dependencies, dependencyID)
	task.UpdatedAt = r.s.now()
	return nil
}

func (r *taskRepo) RemoveDependency(_ context.Context, taskID, dependencyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	deps := task.Dependencies[:0]
	for _, dep := range task.Dependencies {
		if dep != dependencyID {
			deps = append(deps, dep)
		}
	}
	task.Dependencies = deps
	return nil
}

func (r *taskRepo) CountByCreator(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, task := range r.s.tasks {
		if task.CreatedBy == userID {
			count++
		}
	}
	return count, nil
}

func taskMatches(task *domain.Task, filter repository.TaskFilter, now time.Time) bool {
	if filter.ProjectID != "" && task.ProjectID != filter.ProjectID {
		return false
	}
	if len(filter.ProjectIDs) > 0 && !containsString(filter.ProjectIDs, task.ProjectID) {
		return false
	}
	if filter.AssigneeID != "" && task.AssignedTo != filter.AssigneeID {
		return false
	}
	if filter.CreatorID != "" && task.CreatedBy != filter.CreatorID {
		return false
	}
	if filter.Assigned && task.AssignedTo == "" {
		return false
	}
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	if filter.Overdue && !task.IsOverdue(now) {
		return false
	}
	if !filter.CompletedSince.IsZero() && task.UpdatedAt.Before(filter.CompletedSince) {
		return false
	}
	if len(filter.Tags) > 0 {
		found := false
		for _, want := range filter.Tags {
			if containsString(task.Tags, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			return false
		}
	}
	return true
}

func sortTasks(tasks []domain.Task, order repository.TaskSort) {
	switch order {
	case repository.TaskSortUpdatedDesc:
		sort.Slice(tasks, func(i, j int) bool {
			return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
		})
	case repository.TaskSortDeadlineAsc:
		sort.Slice(tasks, func(i, j int) bool {
			di, dj := tasks[i].Deadline, tasks[j].Deadline
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	default:
		sort.Slice(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

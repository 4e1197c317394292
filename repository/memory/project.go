package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type projectRepo struct {
	s *Store
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	project, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(project), nil
}

func (r *projectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Project
	for _, project := range r.s.projects {
		if filter.TeamID != "" && project.TeamID != filter.TeamID {
			continue
		}
		if len(filter.TeamIDs) > 0 && !containsString(filter.TeamIDs, project.TeamID) {
			continue
		}
		if filter.Status != "" && project.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && project.Priority != filter.Priority {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(project.Name), needle) &&
				!strings.Contains(strings.ToLower(project.Description), needle) &&
				!tagsContain(project.Tags, needle) {
				continue
			}
		}
		matched = append(matched, *cloneProject(project))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
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

func (r *projectRepo) ListIDsByTeam(_ context.Context, teamID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for _, project := range r.s.projects {
		if project.TeamID == teamID {
			ids = append(ids, project.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *projectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := r.s.now()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.s.projects[project.ID] = cloneProject(project)
	return cloneProject(project), nil
}

func (r *projectRepo) Update(_ context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.projects[project.ID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	project.TeamID = existing.TeamID // immutable after creation
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = r.s.now()
	r.s.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	for taskID, task := range r.s.tasks {
		if task.ProjectID == id {
			delete(r.s.tasks, taskID)
		}
	}
	delete(r.s.projects, id)
	return nil
}

func (r *projectRepo) CountActive(_ context.Context, teamIDs []string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, project := range r.s.projects {
		if project.Status == domain.ProjectStatusActive && containsString(teamIDs, project.TeamID) {
			count++
		}
	}
	return count, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func tagsContain(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

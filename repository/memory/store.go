// Package memory provides in-memory implementations of the repository
// interfaces. They back the usecase tests and the local development mode,
// keeping the same contracts as the Postgres implementations.
package memory

import (
	"sync"
	"time"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

// Store holds every entity map behind one lock. Individual repositories are
// thin views over the shared store so cascade semantics (project -> tasks,
// task -> subtasks/dependencies) work without cross-repository wiring.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	teams         map[string]*domain.Team
	projects      map[string]*domain.Project
	tasks         map[string]*domain.Task
	notifications map[string][]*domain.Notification

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		teams:         make(map[string]*domain.Team),
		projects:      make(map[string]*domain.Project),
		tasks:         make(map[string]*domain.Task),
		notifications: make(map[string][]*domain.Notification),
		now:           time.Now,
	}
}

// SetClock overrides the store's notion of "now". Tests use this to pin
// timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s} }
func (s *Store) Teams() repository.TeamRepository                 { return &teamRepo{s} }
func (s *Store) Projects() repository.ProjectRepository           { return &projectRepo{s} }
func (s *Store) Tasks() repository.TaskRepository                 { return &taskRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.Teams = append([]string(nil), u.Teams...)
	return &cp
}

func cloneTeam(t *domain.Team) *domain.Team {
	cp := *t
	cp.Members = append([]domain.TeamMember(nil), t.Members...)
	return &cp
}

func cloneProject(p *domain.Project) *domain.Project {
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}

func cloneTask(t *domain.Task) *domain.Task {
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	cp.Comments = append([]domain.Comment(nil), t.Comments...)
	cp.Suggestions = append([]domain.Suggestion(nil), t.Suggestions...)
	cp.Dependencies = append([]string(nil), t.Dependencies...)
	return &cp
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	cp := *n
	if n.ReadAt != nil {
		at := *n.ReadAt
		cp.ReadAt = &at
	}
	return &cp
}

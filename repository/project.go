package repository

import (
	"context"

	"github.com/ayush17112005/TaskWiseAI/domain"
)

type ProjectFilter struct {
	TeamIDs  []string
	TeamID   string
	Status   domain.ProjectStatus
	Priority domain.Priority
	Search   string
	Limit    int
	Offset   int
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, int, error)
	// ListIDsByTeam returns the ids of every project owned by the team.
	ListIDsByTeam(ctx context.Context, teamID string) ([]string, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	// Delete removes the project and hard-deletes every task in it.
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context, teamIDs []string) (int, error)
}

// Package project manages the project ledger. Every operation resolves the
// owning team through the authorization gate; deleting a project hard-deletes
// all of its tasks.
package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
)

type UseCase struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	teams    repository.TeamRepository
	gate     *authz.Gate
	logger   *zap.Logger
	now      func() time.Time
}

func New(projects repository.ProjectRepository, tasks repository.TaskRepository, teams repository.TeamRepository, gate *authz.Gate, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		tasks:    tasks,
		teams:    teams,
		gate:     gate,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
	TeamID      string
	Status      domain.ProjectStatus
	Priority    domain.Priority
	StartDate   *time.Time
	EndDate     *time.Time
	Tags        []string
}

// Create adds a project to the team. Any team member may create projects.
func (uc *UseCase) Create(ctx context.Context, userID string, in CreateInput) (*domain.Project, error) {
	if _, _, err := uc.gate.Require(ctx, userID, in.TeamID); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "project name is required")
	}
	if in.Status == "" {
		in.Status = domain.ProjectStatusPlanning
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Status.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid project status")
	}
	if !in.Priority.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid project priority")
	}

	now := uc.now()
	project := &domain.Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		TeamID:      in.TeamID,
		CreatedBy:   userID,
		Status:      in.Status,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Tags:        normalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !project.ValidDateRange() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "end date must not precede start date")
	}

	created, err := uc.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("project created",
		zap.String("project_id", created.ID), zap.String("team_id", in.TeamID))
	return created, nil
}

type ListInput struct {
	TeamID   string
	Status   domain.ProjectStatus
	Priority domain.Priority
	Search   string
	Limit    int
	Offset   int
}

// List returns projects across all of the caller's teams, optionally narrowed
// to one team.
func (uc *UseCase) List(ctx context.Context, userID string, in ListInput) ([]domain.Project, int, error) {
	teamIDs, err := uc.memberTeamIDs(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(teamIDs) == 0 {
		return []domain.Project{}, 0, nil
	}
	if in.TeamID != "" {
		if _, _, err := uc.gate.Require(ctx, userID, in.TeamID); err != nil {
			return nil, 0, err
		}
		teamIDs = []string{in.TeamID}
	}
	return uc.projects.List(ctx, repository.ProjectFilter{
		TeamIDs:  teamIDs,
		Status:   in.Status,
		Priority: in.Priority,
		Search:   in.Search,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
}

// Get returns the project to any member of its team.
func (uc *UseCase) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, _, err := uc.gate.Require(ctx, userID, project.TeamID); err != nil {
		return nil, err
	}
	return project, nil
}

type UpdateInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	Priority    *domain.Priority
	StartDate   *time.Time
	EndDate     *time.Time
	ClearDates  bool
	Tags        []string
}

// Update applies a partial update. The owning team can never change.
func (uc *UseCase) Update(ctx context.Context, userID, projectID string, in UpdateInput) (*domain.Project, error) {
	project, err := uc.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "project name is required")
		}
		project.Name = name
	}
	if in.Description != nil {
		project.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid project status")
		}
		project.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.IsValid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid project priority")
		}
		project.Priority = *in.Priority
	}
	if in.ClearDates {
		project.StartDate, project.EndDate = nil, nil
	}
	if in.StartDate != nil {
		project.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		project.EndDate = in.EndDate
	}
	if in.Tags != nil {
		project.Tags = normalizeTags(in.Tags)
	}
	if !project.ValidDateRange() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "end date must not precede start date")
	}

	project.UpdatedAt = uc.now()
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and every task in it. Allowed for the project's
// creator or a team owner/admin.
func (uc *UseCase) Delete(ctx context.Context, userID, projectID string) error {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	_, member, err := uc.gate.Require(ctx, userID, project.TeamID)
	if err != nil {
		return err
	}
	if project.CreatedBy != userID && !member.Role.CanManageMembers() {
		return domain.NewError(domain.ErrCodeForbidden, "only the project creator or a team admin can delete a project")
	}
	if err := uc.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	uc.logger.Info("project deleted", zap.String("project_id", projectID))
	return nil
}

// StatusRollup counts the project's tasks per status.
func (uc *UseCase) StatusRollup(ctx context.Context, userID, projectID string) (map[domain.TaskStatus]int, error) {
	if _, err := uc.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	tasks, _, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	rollup := make(map[domain.TaskStatus]int)
	for i := range tasks {
		rollup[tasks[i].Status]++
	}
	return rollup, nil
}

func (uc *UseCase) memberTeamIDs(ctx context.Context, userID string) ([]string, error) {
	teams, _, err := uc.teams.List(ctx, repository.TeamFilter{MemberID: userID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(teams))
	for i := range teams {
		ids = append(ids, teams[i].ID)
	}
	return ids, nil
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

// Package team owns the membership registry: team lifecycle, the per-team
// member list, and role changes. The creating user becomes the sole owner and
// no operation short of team deletion can reassign or remove that role.
package team

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
	teams    repository.TeamRepository
	users    repository.UserRepository
	gate     *authz.Gate
	notifier *notification.UseCase
	logger   *zap.Logger
	now      func() time.Time
}

func New(teams repository.TeamRepository, users repository.UserRepository, gate *authz.Gate, notifier *notification.UseCase, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		teams:    teams,
		users:    users,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
}

// Create registers a team with the caller as its owner.
func (uc *UseCase) Create(ctx context.Context, userID string, in CreateInput) (*domain.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "team name is required")
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := uc.now()
	team := &domain.Team{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   userID,
		Members: []domain.TeamMember{
			{UserID: userID, Role: domain.TeamRoleOwner, JoinedAt: now},
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := uc.teams.Create(ctx, team)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("team created", zap.String("team_id", created.ID), zap.String("owner_id", userID))
	return created, nil
}

// ListMine returns the caller's active teams.
func (uc *UseCase) ListMine(ctx context.Context, userID, search string, limit, offset int) ([]domain.Team, int, error) {
	return uc.teams.List(ctx, repository.TeamFilter{
		MemberID: userID,
		Search:   search,
		Limit:    limit,
		Offset:   offset,
	})
}

// Get returns the team to any of its members.
func (uc *UseCase) Get(ctx context.Context, userID, teamID string) (*domain.Team, error) {
	team, _, err := uc.gate.Require(ctx, userID, teamID)
	return team, err
}

type UpdateInput struct {
	Name        *string
	Description *string
}

// Update edits name/description. Owners and admins only.
func (uc *UseCase) Update(ctx context.Context, userID, teamID string, in UpdateInput) (*domain.Team, error) {
	team, _, err := uc.gate.Require(ctx, userID, teamID, domain.TeamRoleOwner, domain.TeamRoleAdmin)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "team name is required")
		}
		team.Name = name
	}
	if in.Description != nil {
		team.Description = strings.TrimSpace(*in.Description)
	}
	team.UpdatedAt = uc.now()
	if err := uc.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// Delete soft-deletes the team by flipping the active flag. Owner only. Member
// records stay in place.
func (uc *UseCase) Delete(ctx context.Context, userID, teamID string) error {
	team, _, err := uc.gate.Require(ctx, userID, teamID, domain.TeamRoleOwner)
	if err != nil {
		return err
	}
	team.IsActive = false
	team.UpdatedAt = uc.now()
	if err := uc.teams.Update(ctx, team); err != nil {
		return err
	}
	uc.logger.Info("team deactivated", zap.String("team_id", teamID))
	return nil
}

type AddMemberInput struct {
	UserID string
	Email  string
	Role   domain.TeamRole
}

// AddMember adds an existing user to the team, addressed by id or email.
// Owners and admins only; the owner role can never be granted here.
func (uc *UseCase) AddMember(ctx context.Context, actorID, teamID string, in AddMemberInput) (*domain.Team, error) {
	team, _, err := uc.gate.Require(ctx, actorID, teamID, domain.TeamRoleOwner, domain.TeamRoleAdmin)
	if err != nil {
		return nil, err
	}

	if in.Role == "" {
		in.Role = domain.TeamRoleContributor
	}
	if !in.Role.IsValid() || in.Role == domain.TeamRoleOwner {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid member role")
	}

	var user *domain.User
	switch {
	case in.UserID != "":
		user, err = uc.users.GetByID(ctx, in.UserID)
	case in.Email != "":
		user, err = uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	default:
		return nil, domain.NewError(domain.ErrCodeInvalid, "user id or email is required")
	}
	if err != nil {
		return nil, err
	}
	if team.HasMember(user.ID) {
		return nil, domain.NewError(domain.ErrCodeConflict, "user is already a team member")
	}

	member := domain.TeamMember{UserID: user.ID, Role: in.Role, JoinedAt: uc.now()}
	if err := uc.teams.AddMember(ctx, teamID, member); err != nil {
		return nil, err
	}

	uc.notifier.Emit(ctx, domain.Notification{
		UserID:  user.ID,
		Kind:    domain.NotificationTeamInvite,
		Title:   "Added to team",
		Message: fmt.Sprintf("You have been added to the team %q", team.Name),
		TeamID:  teamID,
	})
	return uc.teams.GetByID(ctx, teamID)
}

// RemoveMember drops a member. Owners and admins only; the owner can never be
// removed.
func (uc *UseCase) RemoveMember(ctx context.Context, actorID, teamID, userID string) (*domain.Team, error) {
	team, _, err := uc.gate.Require(ctx, actorID, teamID, domain.TeamRoleOwner, domain.TeamRoleAdmin)
	if err != nil {
		return nil, err
	}
	member := team.Member(userID)
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	if member.Role == domain.TeamRoleOwner {
		return nil, domain.NewError(domain.ErrCodeForbidden, "the team owner cannot be removed")
	}
	if err := uc.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return uc.teams.GetByID(ctx, teamID)
}

// ChangeRole updates a member's role. Owner only. The owner's own role is
// fixed and the owner role cannot be granted to anyone else.
func (uc *UseCase) ChangeRole(ctx context.Context, actorID, teamID, userID string, role domain.TeamRole) (*domain.Team, error) {
	team, _, err := uc.gate.Require(ctx, actorID, teamID, domain.TeamRoleOwner)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() || role == domain.TeamRoleOwner {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid member role")
	}
	member := team.Member(userID)
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	if member.Role == domain.TeamRoleOwner {
		return nil, domain.NewError(domain.ErrCodeForbidden, "the owner role cannot be changed")
	}
	if err := uc.teams.UpdateMemberRole(ctx, teamID, userID, role); err != nil {
		return nil, err
	}
	return uc.teams.GetByID(ctx, teamID)
}

// Package authz resolves a caller's membership in a team and enforces role
// requirements. Every team-scoped operation funnels through the Gate so the
// distinction between "team does not exist" and "you may not touch it" stays
// consistent across the API.
package authz

import (
	"context"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type Gate struct {
	teams repository.TeamRepository
}

func NewGate(teams repository.TeamRepository) *Gate {
	return &Gate{teams: teams}
}

// Require loads the team and checks that userID is a member holding one of
// the allowed roles. An empty roles list means any member passes. Deactivated
// teams behave as if they do not exist.
func (g *Gate) Require(ctx context.Context, userID, teamID string, roles ...domain.TeamRole) (*domain.Team, *domain.TeamMember, error) {
	team, err := g.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	if !team.IsActive {
		return nil, nil, domain.ErrTeamNotFound
	}

	member := team.Member(userID)
	if member == nil {
		return nil, nil, domain.ErrNotTeamMember
	}
	if len(roles) == 0 {
		return team, member, nil
	}
	for _, role := range roles {
		if member.Role == role {
			return team, member, nil
		}
	}
	return nil, nil, domain.NewError(domain.ErrCodeForbidden, "insufficient team role for this operation")
}

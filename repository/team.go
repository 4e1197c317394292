package repository

import (
	"context"

	"github.com/ayush17112005/TaskWiseAI/domain"
)

type TeamFilter struct {
	MemberID string
	Search   string
	Limit    int
	Offset   int
}

// TeamRepository owns team records and their member lists. GetByID returns
// soft-deleted teams as well; callers that must exclude them check IsActive.
type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context, filter TeamFilter) ([]domain.Team, int, error)
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	AddMember(ctx context.Context, teamID string, member domain.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	UpdateMemberRole(ctx context.Context, teamID, userID string, role domain.TeamRole) error
}

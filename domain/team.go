package domain

import "time"

// TeamRole is the per-team membership role.
type TeamRole string

const (
	TeamRoleOwner       TeamRole = "owner"
	TeamRoleAdmin       TeamRole = "admin"
	TeamRoleContributor TeamRole = "contributor"
	TeamRoleViewer      TeamRole = "viewer"
)

func (r TeamRole) IsValid() bool {
	switch r {
	case TeamRoleOwner, TeamRoleAdmin, TeamRoleContributor, TeamRoleViewer:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may add or remove team members.
func (r TeamRole) CanManageMembers() bool {
	return r == TeamRoleOwner || r == TeamRoleAdmin
}

// TeamMember binds a user to a team with a role. Exactly one member holds the
// owner role, assigned at team creation and never reassigned afterwards.
type TeamMember struct {
	UserID   string    `json:"user_id"`
	Role     TeamRole  `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Team is the root authorization scope. Teams are soft-deleted by flipping
// IsActive; member records are never physically removed on deletion.
type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedBy   string       `json:"created_by"`
	Members     []TeamMember `json:"members"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Member returns the membership record for userID, or nil when the user does
// not belong to the team.
func (t *Team) Member(userID string) *TeamMember {
	if t == nil {
		return nil
	}
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			return &t.Members[i]
		}
	}
	return nil
}

func (t *Team) HasMember(userID string) bool {
	return t.Member(userID) != nil
}

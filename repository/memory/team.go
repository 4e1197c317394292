package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type teamRepo struct {
	s *Store
}

func (r *teamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	team, ok := r.s.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return cloneTeam(team), nil
}

func (r *teamRepo) List(_ context.Context, filter repository.TeamFilter) ([]domain.Team, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Team
	for _, team := range r.s.teams {
		if !team.IsActive {
			continue
		}
		if filter.MemberID != "" && !team.HasMember(filter.MemberID) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(team.Name), needle) &&
				!strings.Contains(strings.ToLower(team.Description), needle) {
				continue
			}
		}
		matched = append(matched, *cloneTeam(team))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginateTeams(matched, filter.Limit, filter.Offset), total, nil
}

func (r *teamRepo) Create(_ context.Context, team *domain.Team) (*domain.Team, error) {
	if team == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	now := r.s.now()
	team.CreatedAt = now
	team.UpdatedAt = now
	r.s.teams[team.ID] = cloneTeam(team)

	// Mirror membership onto each member's team list.
	for _, m := range team.Members {
		if user, ok := r.s.users[m.UserID]; ok {
			user.Teams = append(user.Teams, team.ID)
		}
	}
	return cloneTeam(team), nil
}

func (r *teamRepo) Update(_ context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.teams[team.ID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	team.CreatedAt = existing.CreatedAt
	team.UpdatedAt = r.s.now()
	r.s.teams[team.ID] = cloneTeam(team)
	return nil
}

func (r *teamRepo) AddMember(_ context.Context, teamID string, member domain.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	if team.HasMember(member.UserID) {
		return domain.NewError(domain.ErrCodeConflict, "user is already a member of this team")
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = r.s.now()
	}
	team.Members = append(team.Members, member)
	team.UpdatedAt = r.s.now()
	if user, ok := r.s.users[member.UserID]; ok {
		user.Teams = append(user.Teams, teamID)
	}
	return nil
}

func (r *teamRepo) RemoveMember(_ context.Context, teamID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	kept := team.Members[:0]
	found := false
	for _, m := range team.Members {
		if m.UserID == userID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return domain.ErrMemberNotFound
	}
	team.Members = kept
	team.UpdatedAt = r.s.now()
	if user, ok := r.s.users[userID]; ok {
		teams := user.Teams[:0]
		for _, id := range user.Teams {
			if id != teamID {
				teams = append(teams, id)
			}
		}
		user.Teams = teams
	}
	return nil
}

func (r *teamRepo) UpdateMemberRole(_ context.Context, teamID, userID string, role domain.TeamRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	for i := range team.Members {
		if team.Members[i].UserID == userID {
			team.Members[i].Role = role
			team.UpdatedAt = r.s.now()
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func paginateTeams(teams []domain.Team, limit, offset int) []domain.Team {
	if offset >= len(teams) {
		return nil
	}
	teams = teams[offset:]
	if limit > 0 && limit < len(teams) {
		teams = teams[:limit]
	}
	return teams
}

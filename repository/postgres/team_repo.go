package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository returns a Postgres-backed implementation of TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `
	SELECT id, name, description, created_by, is_active, created_at, updated_at
	FROM teams
	WHERE id = $1
	`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.CreatedBy,
		&team.IsActive,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	members, err := r.loadMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context, filter repository.TeamFilter) ([]domain.Team, int, error) {
	const query = `
	SELECT t.id, t.name, t.description, t.created_by, t.is_active, t.created_at, t.updated_at,
	       COUNT(*) OVER()
	FROM teams t
	JOIN team_members tm ON tm.team_id = t.id
	WHERE t.is_active
	  AND tm.user_id = $1
	  AND ($2 = '' OR t.name ILIKE '%' || $2 || '%' OR t.description ILIKE '%' || $2 || '%')
	ORDER BY t.created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		filter.MemberID, filter.Search, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teams []domain.Team
	var total int
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(
			&team.ID, &team.Name, &team.Description, &team.CreatedBy,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range teams {
		members, err := r.loadMembers(ctx, teams[i].ID)
		if err != nil {
			return nil, 0, err
		}
		teams[i].Members = members
	}
	return teams, total, nil
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	if team == nil {
		return nil, domain.ErrInvalidPayload
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertTeam = `
	INSERT INTO teams (id, name, description, created_by, is_active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, insertTeam,
		team.ID, team.Name, team.Description, team.CreatedBy, team.IsActive,
	).Scan(&team.CreatedAt, &team.UpdatedAt); err != nil {
		return nil, err
	}

	const insertMember = `
	INSERT INTO team_members (team_id, user_id, role, joined_at)
	VALUES ($1, $2, $3, COALESCE($4, NOW()))
	`
	for i := range team.Members {
		m := &team.Members[i]
		if _, err := tx.Exec(ctx, insertMember, team.ID, m.UserID, m.Role, nullTime(m.JoinedAt)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	const query = `
	UPDATE teams
	SET name = $2,
		description = $3,
		is_active = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		team.ID, team.Name, team.Description, team.IsActive,
	).Scan(&team.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (r *teamRepository) AddMember(ctx context.Context, teamID string, member domain.TeamMember) error {
	const query = `
	INSERT INTO team_members (team_id, user_id, role, joined_at)
	VALUES ($1, $2, $3, COALESCE($4, NOW()))
	`
	if _, err := r.pool.Exec(ctx, query, teamID, member.UserID, member.Role, nullTime(member.JoinedAt)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return domain.NewError(domain.ErrCodeConflict, "user is already a member of this team")
			case "23503":
				return domain.ErrTeamNotFound
			}
		}
		return err
	}
	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	const query = `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *teamRepository) UpdateMemberRole(ctx context.Context, teamID, userID string, role domain.TeamRole) error {
	const query = `UPDATE team_members SET role = $3 WHERE team_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, teamID, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *teamRepository) loadMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	const query = `
	SELECT user_id, role, joined_at
	FROM team_members
	WHERE team_id = $1
	ORDER BY joined_at ASC
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `
	id, name, description, team_id, created_by, status, priority,
	start_date, end_date, tags, created_at, updated_at
`

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, int, error) {
	query := `
	SELECT ` + projectColumns + `, COUNT(*) OVER()
	FROM projects
	WHERE (cardinality($1::text[]) = 0 OR team_id = ANY($1))
	  AND ($2 = '' OR team_id = $2)
	  AND ($3 = '' OR status = $3)
	  AND ($4 = '' OR priority = $4)
	  AND ($5 = '' OR name ILIKE '%' || $5 || '%'
	       OR description ILIKE '%' || $5 || '%'
	       OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE '%' || $5 || '%'))
	ORDER BY created_at DESC
	LIMIT $6 OFFSET $7
	`
	rows, err := r.pool.Query(ctx, query,
		stringArray(filter.TeamIDs),
		filter.TeamID,
		string(filter.Status),
		string(filter.Priority),
		filter.Search,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []domain.Project
	var total int
	for rows.Next() {
		project, err := scanProjectCounted(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, *project)
	}
	return projects, total, rows.Err()
}

func (r *projectRepository) ListIDsByTeam(ctx context.Context, teamID string) ([]string, error) {
	const query = `SELECT id FROM projects WHERE team_id = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO projects (id, name, description, team_id, created_by, status, priority, start_date, end_date, tags)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.TeamID,
		project.CreatedBy,
		project.Status,
		project.Priority,
		nullTimePtr(project.StartDate),
		nullTimePtr(project.EndDate),
		stringArray(project.Tags),
	).Scan(&project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	// team_id is intentionally absent: the owning team never changes.
	const query = `
	UPDATE projects
	SET name = $2,
		description = $3,
		status = $4,
		priority = $5,
		start_date = $6,
		end_date = $7,
		tags = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.Priority,
		nullTimePtr(project.StartDate),
		nullTimePtr(project.EndDate),
		stringArray(project.Tags),
	).Scan(&project.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Tasks cascade by foreign key, but dependency and comment rows hang off
	// tasks, so clear them explicitly before dropping the project.
	statements := []string{
		`DELETE FROM task_dependencies WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
		   OR depends_on IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM task_comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM task_suggestions WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM tasks WHERE project_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return tx.Commit(ctx)
}

func (r *projectRepository) CountActive(ctx context.Context, teamIDs []string) (int, error) {
	const query = `
	SELECT COUNT(*) FROM projects
	WHERE status = 'active' AND team_id = ANY($1)
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, stringArray(teamIDs)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	var start, end *time.Time

	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.TeamID,
		&project.CreatedBy,
		&project.Status,
		&project.Priority,
		&start,
		&end,
		&project.Tags,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	project.StartDate = start
	project.EndDate = end
	return &project, nil
}

func scanProjectCounted(rows pgx.Rows, total *int) (*domain.Project, error) {
	var project domain.Project
	var start, end *time.Time

	if err := rows.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.TeamID,
		&project.CreatedBy,
		&project.Status,
		&project.Priority,
		&start,
		&end,
		&project.Tags,
		&project.CreatedAt,
		&project.UpdatedAt,
		total,
	); err != nil {
		return nil, err
	}
	project.StartDate = start
	project.EndDate = end
	return &project, nil
}

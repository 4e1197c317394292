package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
	t.id, t.title, t.description, t.project_id, t.created_by, t.assigned_to,
	t.status, t.priority, t.deadline, t.estimated_hours, t.actual_hours,
	t.tags, t.parent_id, t.created_at, t.updated_at
`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadEmbedded(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	query := `
	SELECT ` + taskColumns + `, COUNT(*) OVER()
	FROM tasks t
	WHERE (cardinality($1::text[]) = 0 OR t.project_id = ANY($1))
	  AND ($2 = '' OR t.project_id = $2)
	  AND ($3 = '' OR t.assigned_to = $3)
	  AND ($4 = '' OR t.created_by = $4)
	  AND (NOT $5 OR t.assigned_to IS NOT NULL)
	  AND ($6 = '' OR t.status = $6)
	  AND ($7 = '' OR t.priority = $7)
	  AND (NOT $8 OR (t.deadline < NOW() AND t.status <> 'completed'))
	  AND (cardinality($9::text[]) = 0 OR t.tags && $9)
	  AND ($10 = '' OR t.title ILIKE '%' || $10 || '%' OR t.description ILIKE '%' || $10 || '%')
	  AND ($11::timestamptz IS NULL OR t.updated_at >= $11)
	` + orderClause(filter.Sort) + `
	LIMIT $12 OFFSET $13
	`
	var since interface{}
	if !filter.CompletedSince.IsZero() {
		since = filter.CompletedSince
	}
	rows, err := r.pool.Query(ctx, query,
		stringArray(filter.ProjectIDs),
		filter.ProjectID,
		filter.AssigneeID,
		filter.CreatorID,
		filter.Assigned,
		string(filter.Status),
		string(filter.Priority),
		filter.Overdue,
		stringArray(filter.Tags),
		filter.Search,
		since,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []domain.Task
	var total int
	for rows.Next() {
		task, err := scanTaskCounted(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range tasks {
		if err := r.loadEmbedded(ctx, &tasks[i]); err != nil {
			return nil, 0, err
		}
	}
	return tasks, total, nil
}

func (r *taskRepository) ListByParent(ctx context.Context, parentID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.parent_id = $1 ORDER BY t.created_at ASC`
	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []domain.Task
	for rows.Next() {
		var ignored int
		task, err := scanTaskCounted(rowsWithoutCount{rows}, &ignored)
		if err != nil {
			return nil, err
		}
		children = append(children, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range children {
		if err := r.loadEmbedded(ctx, &children[i]); err != nil {
			return nil, err
		}
	}
	return children, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, project_id, created_by, assigned_to,
	                   status, priority, deadline, estimated_hours, actual_hours, tags, parent_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.ProjectID,
		task.CreatedBy,
		nullString(task.AssignedTo),
		task.Status,
		task.Priority,
		nullTimePtr(task.Deadline),
		task.EstimatedHours,
		task.ActualHours,
		stringArray(task.Tags),
		nullString(task.ParentID),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	if task.Comments == nil {
		task.Comments = []domain.Comment{}
	}
	if task.Suggestions == nil {
		task.Suggestions = []domain.Suggestion{}
	}
	if task.Dependencies == nil {
		task.Dependencies = []string{}
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	// project_id is intentionally absent: tasks never move between projects.
	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		assigned_to = $4,
		status = $5,
		priority = $6,
		deadline = $7,
		estimated_hours = $8,
		actual_hours = $9,
		tags = $10,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		nullString(task.AssignedTo),
		task.Status,
		task.Priority,
		nullTimePtr(task.Deadline),
		task.EstimatedHours,
		task.ActualHours,
		stringArray(task.Tags),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The task and every descendant, however deep.
	const subtree = `
	WITH RECURSIVE subtree AS (
		SELECT id FROM tasks WHERE id = $1
		UNION ALL
		SELECT t.id FROM tasks t JOIN subtree s ON t.parent_id = s.id
	)
	SELECT id FROM subtree`

	// Rows referencing any member of the subtree go first; edges pointing at
	// a deleted task from outside the subtree are stripped in the same pass.
	// The subtree itself goes in one statement so the parent_id constraint is
	// checked only after the whole set is gone.
	statements := []string{
		`DELETE FROM task_dependencies WHERE task_id IN (` + subtree + `) OR depends_on IN (` + subtree + `)`,
		`DELETE FROM task_comments WHERE task_id IN (` + subtree + `)`,
		`DELETE FROM task_suggestions WHERE task_id IN (` + subtree + `)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id IN (`+subtree+`)`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return tx.Commit(ctx)
}

func (r *taskRepository) AddComment(ctx context.Context, taskID string, comment domain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	const query = `
	INSERT INTO task_comments (id, task_id, author_id, content, created_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
	`
	if _, err := r.pool.Exec(ctx, query,
		comment.ID, taskID, comment.AuthorID, comment.Content, nullTime(comment.CreatedAt),
	); err != nil {
		return foreignKeyAsNotFound(err, domain.ErrTaskNotFound)
	}
	return nil
}

func (r *taskRepository) AppendSuggestion(ctx context.Context, taskID string, suggestion domain.Suggestion) error {
	if suggestion.ID == "" {
		suggestion.ID = uuid.NewString()
	}
	const query = `
	INSERT INTO task_suggestions (id, task_id, kind, payload, reasoning, confidence, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	`
	if _, err := r.pool.Exec(ctx, query,
		suggestion.ID, taskID, suggestion.Kind, []byte(suggestion.Payload),
		suggestion.Reasoning, suggestion.Confidence, nullTime(suggestion.CreatedAt),
	); err != nil {
		return foreignKeyAsNotFound(err, domain.ErrTaskNotFound)
	}
	return nil
}

func (r *taskRepository) AddDependency(ctx context.Context, taskID, dependencyID string) error {
	const query = `INSERT INTO task_dependencies (task_id, depends_on) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, taskID, dependencyID); err != nil {
		return foreignKeyAsNotFound(err, domain.ErrTaskNotFound)
	}
	return nil
}

func (r *taskRepository) RemoveDependency(ctx context.Context, taskID, dependencyID string) error {
	const query = `DELETE FROM task_dependencies WHERE task_id = $1 AND depends_on = $2`
	_, err := r.pool.Exec(ctx, query, taskID, dependencyID)
	return err
}

func (r *taskRepository) CountByCreator(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE created_by = $1`, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) loadEmbedded(ctx context.Context, task *domain.Task) error {
	task.Comments = []domain.Comment{}
	task.Suggestions = []domain.Suggestion{}
	task.Dependencies = []string{}

	rows, err := r.pool.Query(ctx,
		`SELECT id, author_id, content, created_at FROM task_comments WHERE task_id = $1 ORDER BY created_at ASC`,
		task.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		task.Comments = append(task.Comments, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, kind, payload, reasoning, confidence, created_at FROM task_suggestions WHERE task_id = $1 ORDER BY created_at ASC`,
		task.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var s domain.Suggestion
		var payload []byte
		if err := rows.Scan(&s.ID, &s.Kind, &payload, &s.Reasoning, &s.Confidence, &s.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		s.Payload = payload
		task.Suggestions = append(task.Suggestions, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT depends_on FROM task_dependencies WHERE task_id = $1 ORDER BY depends_on`,
		task.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return err
		}
		task.Dependencies = append(task.Dependencies, dep)
	}
	return rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var assignedTo, parentID *string
	var deadline *time.Time

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ProjectID,
		&task.CreatedBy,
		&assignedTo,
		&task.Status,
		&task.Priority,
		&deadline,
		&task.EstimatedHours,
		&task.ActualHours,
		&task.Tags,
		&parentID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	if assignedTo != nil {
		task.AssignedTo = *assignedTo
	}
	if parentID != nil {
		task.ParentID = *parentID
	}
	task.Deadline = deadline
	return &task, nil
}

func scanTaskCounted(row pgx.Row, total *int) (*domain.Task, error) {
	var task domain.Task
	var assignedTo, parentID *string
	var deadline *time.Time

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ProjectID,
		&task.CreatedBy,
		&assignedTo,
		&task.Status,
		&task.Priority,
		&deadline,
		&task.EstimatedHours,
		&task.ActualHours,
		&task.Tags,
		&parentID,
		&task.CreatedAt,
		&task.UpdatedAt,
		total,
	); err != nil {
		return nil, err
	}
	if assignedTo != nil {
		task.AssignedTo = *assignedTo
	}
	if parentID != nil {
		task.ParentID = *parentID
	}
	task.Deadline = deadline
	return &task, nil
}

// rowsWithoutCount lets ListByParent reuse scanTaskCounted by feeding the
// scanner a row that appends a zero count column.
type rowsWithoutCount struct {
	rows pgx.Rows
}

func (r rowsWithoutCount) Scan(dest ...interface{}) error {
	return r.rows.Scan(dest[:len(dest)-1]...)
}

func orderClause(sort repository.TaskSort) string {
	switch sort {
	case repository.TaskSortUpdatedDesc:
		return `ORDER BY t.updated_at DESC`
	case repository.TaskSortDeadlineAsc:
		return `ORDER BY t.deadline ASC NULLS LAST`
	default:
		return `ORDER BY t.created_at DESC`
	}
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func foreignKeyAsNotFound(err error, notFound error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return notFound
	}
	return err
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

const taskColumns = `id, title, description, status, priority, due_date, assigned_to, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates the tasks table repository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = domain.NewID()
	}
	var due *time.Time
	if !task.DueDate.IsZero() {
		due = &task.DueDate
	}
	const query = `
        INSERT INTO tasks (id, title, description, status, priority, due_date, assigned_to)
        VALUES ($1,$2,$3,$4,$5,COALESCE($6::timestamptz, NOW()),$7)
        RETURNING due_date, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		due,
		task.AssignedTo,
	).Scan(&task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	return mapError("insert task", err)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4, due_date=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING ` + taskColumns
	row := r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.ID,
	)
	updated, err := scanTask(row)
	if err != nil {
		return mapError("update task", err)
	}
	*task = *updated
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return mapError("delete task", err)
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id))
	if err != nil {
		return nil, mapError("get task", err)
	}
	return task, nil
}

func (r *taskRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	if len(ids) == 0 {
		return []domain.Task{}, nil
	}
	return r.query(ctx, "get tasks", `SELECT `+taskColumns+` FROM tasks WHERE id = ANY($1)`, ids)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	where, args := taskWhere(filter)
	args = append(args, limitArg(filter.Limit), filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM tasks %s ORDER BY due_date ASC, id ASC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)-1, len(args))
	return r.query(ctx, "list tasks", query, args...)
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	where, args := taskWhere(filter)
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return 0, mapError("count tasks", err)
	}
	return total, nil
}

func (r *taskRepository) SearchByTitle(ctx context.Context, term string, limit int) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE title ILIKE $1
        ORDER BY due_date ASC, id ASC LIMIT $2`
	return r.query(ctx, "search tasks", query, containsPattern(term), limitArg(limit))
}

func (r *taskRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, mapError(op, rows.Err())
}

func taskWhere(filter repository.TaskFilter) (string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.AssignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

const commentColumns = `id, task_id, author_id, message, created_at, updated_at`

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates the comments table repository.
func NewCommentRepository(pool *pgxpool.Pool) repository.CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == "" {
		comment.ID = domain.NewID()
	}
	const query = `
        INSERT INTO comments (id, task_id, author_id, message)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, comment.ID, comment.TaskID, comment.AuthorID, comment.Message).
		Scan(&comment.CreatedAt, &comment.UpdatedAt)
	return mapError("insert comment", err)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET message=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + commentColumns
	updated, err := scanComment(r.pool.QueryRow(ctx, query, comment.Message, comment.ID))
	if err != nil {
		return mapError("update comment", err)
	}
	*comment = *updated
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return mapError("delete comment", err)
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *commentRepository) GetForTask(ctx context.Context, taskID, commentID string) (*domain.Comment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id=$1 AND task_id=$2`, commentID, taskID)
	comment, err := scanComment(row)
	if err != nil {
		return nil, mapError("get comment", err)
	}
	return comment, nil
}

func (r *commentRepository) List(ctx context.Context, filter repository.CommentFilter) ([]domain.Comment, error) {
	order := `created_at DESC, id DESC`
	if filter.Oldest {
		order = `created_at ASC, id ASC`
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE ($1::text = '' OR task_id = $1::text)
        ORDER BY ` + order + ` LIMIT $2 OFFSET $3`
	return r.query(ctx, "list comments", query, filter.TaskID, limitArg(filter.Limit), filter.Offset)
}

func (r *commentRepository) Count(ctx context.Context, filter repository.CommentFilter) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE ($1::text = '' OR task_id = $1::text)`, filter.TaskID).Scan(&total)
	if err != nil {
		return 0, mapError("count comments", err)
	}
	return total, nil
}

func (r *commentRepository) SearchByMessage(ctx context.Context, term string, limit int) ([]domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE message ILIKE $1
        ORDER BY created_at DESC, id DESC LIMIT $2`
	return r.query(ctx, "search comments", query, containsPattern(term), limitArg(limit))
}

func (r *commentRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		comments = append(comments, *comment)
	}
	return comments, mapError(op, rows.Err())
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Message,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

const userColumns = `id, user_name, email, role, status, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the users table repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = domain.NewID()
	}
	const query = `
        INSERT INTO users (id, user_name, email, role, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Role, user.Status).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapError("insert user", err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET user_name=$1, email=$2, role=$3, status=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, user.Name, user.Email, user.Role, user.Status, user.ID).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapError("update user", err)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapError("delete user", err)
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError("get user", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError("get user by email", err)
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return r.query(ctx, "get users", `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	where, args := userWhere(filter)
	args = append(args, limitArg(filter.Limit), filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))
	return r.query(ctx, "list users", query, args...)
}

func (r *userRepository) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	where, args := userWhere(filter)
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return 0, mapError("count users", err)
	}
	return total, nil
}

func (r *userRepository) SearchByName(ctx context.Context, term string, limit int) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_name ILIKE $1
        ORDER BY created_at DESC, id DESC LIMIT $2`
	return r.query(ctx, "search users", query, containsPattern(term), limitArg(limit))
}

func (r *userRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		users = append(users, *user)
	}
	return users, mapError(op, rows.Err())
}

func userWhere(filter repository.UserFilter) (string, []any) {
	if filter.Role == nil {
		return "", nil
	}
	return "WHERE role=$1", []any{*filter.Role}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

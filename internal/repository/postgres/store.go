package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-service/internal/repository"
)

// NewRepositories wires every table repository onto one pool.
func NewRepositories(pool *pgxpool.Pool) repository.Repositories {
	return repository.Repositories{
		Users:    NewUserRepository(pool),
		Tasks:    NewTaskRepository(pool),
		Comments: NewCommentRepository(pool),
	}
}

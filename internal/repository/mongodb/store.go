package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/task-service/internal/repository"
)

// Collection names.
const (
	UsersCollection    = "users"
	TasksCollection    = "tasks"
	CommentsCollection = "comments"
)

// NewRepositories wires every collection repository onto db.
func NewRepositories(db *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Users:    NewUserRepository(db.Collection(UsersCollection)),
		Tasks:    NewTaskRepository(db.Collection(TasksCollection)),
		Comments: NewCommentRepository(db.Collection(CommentsCollection)),
	}
}

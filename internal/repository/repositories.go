package repository

import "context"

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users    UserRepository
	Tasks    TaskRepository
	Comments CommentRepository
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

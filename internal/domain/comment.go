package domain

import "time"

// Comment is a message in a task's thread. TaskID and AuthorID never change after creation.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import "time"

// Activity is one entry of the recent-activity feed derived from domain events.
type Activity struct {
	ID         string
	Type       string
	ActorID    string
	SubjectID  string
	Summary    string
	OccurredAt time.Time
}

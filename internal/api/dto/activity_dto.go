package dto

import "time"

// ActivityResponse is one entry of the activity feed.
type ActivityResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ActorID    string    `json:"actorId,omitempty"`
	SubjectID  string    `json:"subjectId,omitempty"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ActivityListResponse lists recent activity, newest first.
type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
}

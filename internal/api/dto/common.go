package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// DeleteResponse confirms a delete. Only the id matching the resource is set.
type DeleteResponse struct {
	Message   string `json:"message"`
	TaskID    string `json:"taskId,omitempty"`
	CommentID string `json:"commentId,omitempty"`
}

var nullJSON = []byte("null")

// ErrInvalidDate is returned when a FlexibleTime cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// UserReference is a user id that is rendered as an object once populated.
// Unpopulated references marshal as the bare id string.
type UserReference struct {
	ID        string
	UserName  string
	Email     string
	Populated bool
}

type userReferenceJSON struct {
	ID       string `json:"_id"`
	UserName string `json:"userName,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (r UserReference) MarshalJSON() ([]byte, error) {
	if !r.Populated {
		return json.Marshal(r.ID)
	}
	return json.Marshal(userReferenceJSON{ID: r.ID, UserName: r.UserName, Email: r.Email})
}

func (r *UserReference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*r = UserReference{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		*r = UserReference{}
		return json.Unmarshal(data, &r.ID)
	}
	var obj userReferenceJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = UserReference{ID: obj.ID, UserName: obj.UserName, Email: obj.Email, Populated: true}
	return nil
}

// TaskReference is the task side of a comment: a bare id or {_id, title}.
type TaskReference struct {
	ID        string
	Title     string
	Populated bool
}

type taskReferenceJSON struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
}

func (r TaskReference) MarshalJSON() ([]byte, error) {
	if !r.Populated {
		return json.Marshal(r.ID)
	}
	return json.Marshal(taskReferenceJSON{ID: r.ID, Title: r.Title})
}

func (r *TaskReference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*r = TaskReference{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		*r = TaskReference{}
		return json.Unmarshal(data, &r.ID)
	}
	var obj taskReferenceJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = TaskReference{ID: obj.ID, Title: obj.Title, Populated: true}
	return nil
}

// Layouts accepted for dates in request bodies, tried in order.
var flexibleTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FlexibleTime accepts RFC 3339 timestamps as well as the date and
// datetime-local formats browsers submit. An empty string leaves it zero.
type FlexibleTime struct {
	time.Time
}

func (t *FlexibleTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullJSON) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected a string", ErrInvalidDate)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range flexibleTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrInvalidDate, raw)
}

func (t FlexibleTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return nullJSON, nil
	}
	return json.Marshal(t.Time)
}

// Ptr returns nil for an absent or empty value.
func (t *FlexibleTime) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/task-service/internal/domain"
)

// ActivityRepository stores the recent-activity feed.
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.Activity) error
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)
}

type activityRepository struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewActivityRepository returns a Redis stream backed feed capped at maxLen entries.
func NewActivityRepository(client *redis.Client, stream string, maxLen int64) ActivityRepository {
	return &activityRepository{client: client, stream: stream, maxLen: maxLen}
}

func (r *activityRepository) Append(ctx context.Context, entry *domain.Activity) error {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Values: map[string]any{
			"type":        entry.Type,
			"actor_id":    entry.ActorID,
			"subject_id":  entry.SubjectID,
			"summary":     entry.Summary,
			"occurred_at": entry.OccurredAt.UTC().Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	msgs, err := r.client.XRevRangeN(ctx, r.stream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, err
	}
	result := make([]domain.Activity, 0, len(msgs))
	for _, msg := range msgs {
		entry := domain.Activity{
			ID:        msg.ID,
			Type:      stringValue(msg.Values, "type"),
			ActorID:   stringValue(msg.Values, "actor_id"),
			SubjectID: stringValue(msg.Values, "subject_id"),
			Summary:   stringValue(msg.Values, "summary"),
		}
		if ts, err := time.Parse(time.RFC3339Nano, stringValue(msg.Values, "occurred_at")); err == nil {
			entry.OccurredAt = ts
		}
		result = append(result, entry)
	}
	return result, nil
}

func stringValue(values map[string]any, key string) string {
	if v, ok := values[key].(string); ok {
		return v
	}
	return ""
}

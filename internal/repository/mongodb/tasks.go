package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

var earliestDue = bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: 1}}

type taskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository instantiates the tasks collection repository.
func NewTaskRepository(coll *mongo.Collection) repository.TaskRepository {
	return &taskRepository{coll: coll}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	oid, err := assignID(&task.ID)
	if err != nil {
		return err
	}
	assignee, err := primitive.ObjectIDFromHex(task.AssignedTo)
	if err != nil {
		return mapError("insert task", err)
	}
	ts := now()
	if task.DueDate.IsZero() {
		task.DueDate = ts
	}
	task.DueDate = task.DueDate.UTC().Truncate(time.Millisecond)
	doc := taskDocument{
		ID:          oid,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		AssignedTo:  assignee,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapError("insert task", err)
	}
	task.CreatedAt, task.UpdatedAt = ts, ts
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	oid, err := objectID(task.ID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"dueDate":     task.DueDate,
		"updatedAt":   now(),
	}}
	var doc taskDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return mapError("update task", err)
	}
	*task = doc.toDomain()
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapError("delete task", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError("get task", err)
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []domain.Task{}, nil
	}
	return r.find(ctx, "get tasks", bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query, ok := taskQuery(filter)
	if !ok {
		return []domain.Task{}, nil
	}
	opts := options.Find().SetSort(earliestDue).SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return r.find(ctx, "list tasks", query, opts)
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	query, ok := taskQuery(filter)
	if !ok {
		return 0, nil
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, mapError("count tasks", err)
	}
	return total, nil
}

func (r *taskRepository) SearchByTitle(ctx context.Context, term string, limit int) ([]domain.Task, error) {
	opts := options.Find().SetSort(earliestDue)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, "search tasks", bson.M{"title": containsRegex(term)}, opts)
}

func (r *taskRepository) find(ctx context.Context, op string, query bson.M, opts *options.FindOptions) ([]domain.Task, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, mapError(op, err)
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError(op, err)
	}
	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, nil
}

// taskQuery reports false when the filter cannot match any document.
func taskQuery(filter repository.TaskFilter) (bson.M, bool) {
	query := bson.M{}
	if filter.AssignedTo != "" {
		oid, err := primitive.ObjectIDFromHex(filter.AssignedTo)
		if err != nil {
			return nil, false
		}
		query["assignedTo"] = oid
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	return query, true
}

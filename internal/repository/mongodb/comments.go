package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

var oldestFirst = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository instantiates the comments collection repository.
func NewCommentRepository(coll *mongo.Collection) repository.CommentRepository {
	return &commentRepository{coll: coll}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	oid, err := assignID(&comment.ID)
	if err != nil {
		return err
	}
	taskID, err := primitive.ObjectIDFromHex(comment.TaskID)
	if err != nil {
		return mapError("insert comment", err)
	}
	authorID, err := primitive.ObjectIDFromHex(comment.AuthorID)
	if err != nil {
		return mapError("insert comment", err)
	}
	ts := now()
	doc := commentDocument{
		ID:        oid,
		TaskID:    taskID,
		AuthorID:  authorID,
		Message:   comment.Message,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapError("insert comment", err)
	}
	comment.CreatedAt, comment.UpdatedAt = ts, ts
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	oid, err := objectID(comment.ID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"message": comment.Message, "updatedAt": now()}}
	var doc commentDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return mapError("update comment", err)
	}
	*comment = doc.toDomain()
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapError("delete comment", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *commentRepository) GetForTask(ctx context.Context, taskID, commentID string) (*domain.Comment, error) {
	coid, err := objectID(commentID)
	if err != nil {
		return nil, err
	}
	toid, err := objectID(taskID)
	if err != nil {
		return nil, err
	}
	var doc commentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": coid, "task_id": toid}).Decode(&doc); err != nil {
		return nil, mapError("get comment", err)
	}
	comment := doc.toDomain()
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, filter repository.CommentFilter) ([]domain.Comment, error) {
	query, ok := commentQuery(filter)
	if !ok {
		return []domain.Comment{}, nil
	}
	sort := newestFirst
	if filter.Oldest {
		sort = oldestFirst
	}
	opts := options.Find().SetSort(sort).SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return r.find(ctx, "list comments", query, opts)
}

func (r *commentRepository) Count(ctx context.Context, filter repository.CommentFilter) (int64, error) {
	query, ok := commentQuery(filter)
	if !ok {
		return 0, nil
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, mapError("count comments", err)
	}
	return total, nil
}

func (r *commentRepository) SearchByMessage(ctx context.Context, term string, limit int) ([]domain.Comment, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, "search comments", bson.M{"message": containsRegex(term)}, opts)
}

func (r *commentRepository) find(ctx context.Context, op string, query bson.M, opts *options.FindOptions) ([]domain.Comment, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, mapError(op, err)
	}
	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError(op, err)
	}
	comments := make([]domain.Comment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, doc.toDomain())
	}
	return comments, nil
}

func commentQuery(filter repository.CommentFilter) (bson.M, bool) {
	query := bson.M{}
	if filter.TaskID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.TaskID)
		if err != nil {
			return nil, false
		}
		query["task_id"] = oid
	}
	return query, true
}

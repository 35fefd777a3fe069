package mongodb

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository instantiates the users collection repository.
func NewUserRepository(coll *mongo.Collection) repository.UserRepository {
	return &userRepository{coll: coll}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	oid, err := assignID(&user.ID)
	if err != nil {
		return err
	}
	ts := now()
	doc := userDocument{
		ID:        oid,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapError("insert user", err)
	}
	user.CreatedAt, user.UpdatedAt = ts, ts
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"userName":  user.Name,
		"email":     user.Email,
		"role":      string(user.Role),
		"status":    string(user.Status),
		"updatedAt": now(),
	}}
	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return mapError("update user", err)
	}
	*user = doc.toDomain()
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapError("delete user", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail relies on emails being stored lowercased.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []domain.User{}, nil
	}
	return r.find(ctx, "get users", bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	opts := options.Find().SetSort(newestFirst).SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return r.find(ctx, "list users", userQuery(filter), opts)
}

func (r *userRepository) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, userQuery(filter))
	if err != nil {
		return 0, mapError("count users", err)
	}
	return total, nil
}

func (r *userRepository) SearchByName(ctx context.Context, term string, limit int) ([]domain.User, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, "search users", bson.M{"userName": containsRegex(term)}, opts)
}

func (r *userRepository) findOne(ctx context.Context, query bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, query).Decode(&doc); err != nil {
		return nil, mapError("get user", err)
	}
	user := doc.toDomain()
	return &user, nil
}

func (r *userRepository) find(ctx context.Context, op string, query bson.M, opts *options.FindOptions) ([]domain.User, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, mapError(op, err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError(op, err)
	}
	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toDomain())
	}
	return users, nil
}

func userQuery(filter repository.UserFilter) bson.M {
	query := bson.M{}
	if filter.Role != nil {
		query["role"] = string(*filter.Role)
	}
	return query
}

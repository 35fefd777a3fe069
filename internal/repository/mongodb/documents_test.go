package mongodb

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

func TestContainsRegexQuotesMetacharacters(t *testing.T) {
	re := containsRegex("a.b(c)")
	assert.Equal(t, "i", re.Options)

	compiled := regexp.MustCompile("(?i)" + re.Pattern)
	assert.True(t, compiled.MatchString("xx A.B(C) yy"))
	assert.False(t, compiled.MatchString("aXb(c)"))
}

func TestAssignIDGeneratesWhenEmpty(t *testing.T) {
	var id string
	oid, err := assignID(&id)
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), id)
	assert.True(t, domain.IsValidID(id))

	existing := primitive.NewObjectID().Hex()
	oid, err = assignID(&existing)
	require.NoError(t, err)
	assert.Equal(t, existing, oid.Hex())

	bad := "not-an-id"
	_, err = assignID(&bad)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestObjectIDsSkipsInvalid(t *testing.T) {
	valid := primitive.NewObjectID()
	assert.Equal(t, []primitive.ObjectID{valid}, objectIDs([]string{"nope", valid.Hex()}))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))
	assert.ErrorIs(t, mapError("op", mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapError("op", dup), repository.ErrDuplicate)

	cause := errors.New("socket closed")
	assert.ErrorIs(t, mapError("list tasks", cause), cause)
}

func TestTaskDocumentToDomain(t *testing.T) {
	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := taskDocument{
		ID:         primitive.NewObjectID(),
		Title:      "Ship",
		Status:     "blocked",
		Priority:   "urgent",
		DueDate:    due,
		AssignedTo: primitive.NewObjectID(),
	}
	task := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), task.ID)
	assert.Equal(t, doc.AssignedTo.Hex(), task.AssignedTo)
	assert.Equal(t, domain.TaskStatusBlocked, task.Status)
	assert.Equal(t, domain.TaskPriorityUrgent, task.Priority)
	assert.Equal(t, due, task.DueDate)
}

func TestTaskQueryRejectsMalformedAssignee(t *testing.T) {
	_, ok := taskQuery(repository.TaskFilter{AssignedTo: "zzz"})
	assert.False(t, ok)

	status := domain.TaskStatusTodo
	query, ok := taskQuery(repository.TaskFilter{Status: &status})
	require.True(t, ok)
	assert.Equal(t, "todo", query["status"])
}

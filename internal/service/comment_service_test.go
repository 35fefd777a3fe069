package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

func TestCommentService_CreateRequiresTaskAndAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "Owner", "owner@example.com")
	task := env.createTask(t, owner.ID, "t")

	_, err := env.comments.Create(ctx, task.Task.ID, CommentCreateInput{AuthorID: owner.ID})
	requireCode(t, err, apperrors.CodeValidation, 400)
	assert.EqualError(t, err, "Message and author_id are required")

	_, err = env.comments.Create(ctx, task.Task.ID, CommentCreateInput{Message: "hi", AuthorID: "nope"})
	requireCode(t, err, apperrors.CodeValidation, 400)

	for i := 0; i < 20; i++ {
		_, err = env.comments.Create(ctx, domain.NewID(), CommentCreateInput{Message: "hi", AuthorID: domain.NewID()})
		requireCode(t, err, apperrors.CodeNotFound, 404)
		assert.EqualError(t, err, "Task not found")
	}

	_, err = env.comments.Create(ctx, task.Task.ID, CommentCreateInput{Message: "hi", AuthorID: domain.NewID()})
	requireCode(t, err, apperrors.CodeNotFound, 404)
	assert.EqualError(t, err, "User not found")

	total, err := env.repos.Comments.Count(ctx, repository.CommentFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCommentService_CreatePopulatesRefs(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Owner", "owner@example.com")
	other := env.createUser(t, "Other", "other@example.com")
	task := env.createTask(t, owner.ID, "shared")

	view, err := env.comments.Create(context.Background(), task.Task.ID, CommentCreateInput{Message: " looks good ", AuthorID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, "looks good", view.Comment.Message)
	assert.Equal(t, &domain.UserRef{ID: other.ID, Name: "Other", Email: "other@example.com"}, view.Author)
	assert.Equal(t, task.Task.ID, view.Comment.TaskID)
	assert.Nil(t, view.Task)
}

func TestCommentService_ConcurrentCreates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "Owner", "owner@example.com")
	task := env.createTask(t, owner.ID, "busy")

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			view, err := env.comments.Create(ctx, task.Task.ID, CommentCreateInput{Message: fmt.Sprintf("m%d", i), AuthorID: owner.ID})
			if assert.NoError(t, err) {
				ids[i] = view.Comment.ID
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	page, err := env.comments.ListForTask(ctx, task.Task.ID, 1, 100)
	require.NoError(t, err)
	assert.EqualValues(t, n, page.Total)
}

func TestCommentService_ScopedToTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "Owner", "owner@example.com")
	first := env.createTask(t, owner.ID, "first")
	second := env.createTask(t, owner.ID, "second")
	comment, err := env.comments.Create(ctx, first.Task.ID, CommentCreateInput{Message: "hello", AuthorID: owner.ID})
	require.NoError(t, err)

	_, err = env.comments.Get(ctx, second.Task.ID, comment.Comment.ID)
	requireCode(t, err, apperrors.CodeNotFound, 404)
	_, err = env.comments.Update(ctx, second.Task.ID, comment.Comment.ID, "moved?")
	requireCode(t, err, apperrors.CodeNotFound, 404)
	_, err = env.comments.Delete(ctx, second.Task.ID, comment.Comment.ID)
	requireCode(t, err, apperrors.CodeNotFound, 404)

	_, err = env.comments.Update(ctx, first.Task.ID, comment.Comment.ID, "   ")
	requireCode(t, err, apperrors.CodeValidation, 400)
	assert.EqualError(t, err, "Message is required")

	updated, err := env.comments.Update(ctx, first.Task.ID, comment.Comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Comment.Message)
	assert.Equal(t, owner.ID, updated.Comment.AuthorID)
	assert.Equal(t, first.Task.ID, updated.Comment.TaskID)

	deletedID, err := env.comments.Delete(ctx, first.Task.ID, comment.Comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.Comment.ID, deletedID)
	_, err = env.comments.Get(ctx, first.Task.ID, comment.Comment.ID)
	requireCode(t, err, apperrors.CodeNotFound, 404)
}

func TestCommentService_ListForTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "Owner", "owner@example.com")
	task := env.createTask(t, owner.ID, "listed")
	for i := 0; i < 3; i++ {
		_, err := env.comments.Create(ctx, task.Task.ID, CommentCreateInput{Message: fmt.Sprintf("c%d", i), AuthorID: owner.ID})
		require.NoError(t, err)
	}

	page, err := env.comments.ListForTask(ctx, task.Task.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c2", page.Items[0].Comment.Message)
	assert.Nil(t, page.Items[0].Task)
	assert.Equal(t, "Owner", page.Items[0].Author.Name)
	assert.True(t, page.HasMore())

	_, err = env.comments.ListForTask(ctx, "bad", 1, 10)
	requireCode(t, err, apperrors.CodeValidation, 400)
	assert.EqualError(t, err, "Invalid task ID format")

	_, err = env.comments.ListForTask(ctx, domain.NewID(), 1, 10)
	requireCode(t, err, apperrors.CodeNotFound, 404)
}

func TestCommentService_SearchResolvesDanglingRefs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Author", "author@example.com")
	task := env.createTask(t, author.ID, "gone soon")
	_, err := env.comments.Create(ctx, task.Task.ID, CommentCreateInput{Message: "Needle in 100% haystack", AuthorID: author.ID})
	require.NoError(t, err)
	_, err = env.tasks.Delete(ctx, author.ID, task.Task.ID)
	require.NoError(t, err)
	require.NoError(t, env.users.Delete(ctx, author.ID))

	found, err := env.comments.Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, &domain.UserRef{ID: author.ID}, found[0].Author)
	assert.Equal(t, &domain.TaskRef{ID: task.Task.ID}, found[0].Task)

	_, err = env.comments.Search(ctx, "")
	requireCode(t, err, apperrors.CodeValidation, 400)
}

func TestPreviewTruncatesRunes(t *testing.T) {
	long := strings.Repeat("é", previewLength+5)
	got := preview(long)
	assert.Equal(t, previewLength+1, len([]rune(got)))
	assert.Equal(t, "short", preview("short"))
}

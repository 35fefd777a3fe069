// Package repotest holds behavior checks shared by every store backend.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

// Run exercises repos against the repository contracts. Each subtest uses
// unique emails and ids so the suite tolerates a non-empty database.
func Run(t *testing.T, repos repository.Repositories) {
	t.Helper()
	suffix := domain.NewID()

	t.Run("user lifecycle", func(t *testing.T) {
		ctx := context.Background()
		user := &domain.User{
			Name:   "Contract " + suffix,
			Email:  fmt.Sprintf("contract-%s@example.com", suffix),
			Role:   domain.UserRoleMember,
			Status: domain.UserStatusActive,
		}
		require.NoError(t, repos.Users.Create(ctx, user))
		require.True(t, domain.IsValidID(user.ID))

		dup := &domain.User{Name: "dup", Email: user.Email, Role: domain.UserRoleMember, Status: domain.UserStatusActive}
		assert.ErrorIs(t, repos.Users.Create(ctx, dup), repository.ErrDuplicate)

		byEmail, err := repos.Users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		user.Status = domain.UserStatusInactive
		require.NoError(t, repos.Users.Update(ctx, user))
		got, err := repos.Users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.UserStatusInactive, got.Status)

		found, err := repos.Users.SearchByName(ctx, "CONTRACT "+suffix, 100)
		require.NoError(t, err)
		require.Len(t, found, 1)

		require.NoError(t, repos.Users.Delete(ctx, user.ID))
		_, err = repos.Users.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, repos.Users.Delete(ctx, user.ID), repository.ErrNotFound)
	})

	t.Run("tasks by assignee", func(t *testing.T) {
		ctx := context.Background()
		owner := domain.NewID()
		due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, title := range []string{"second", "first"} {
			task := &domain.Task{
				Title:       title + " " + suffix,
				Description: "d",
				Status:      domain.TaskStatusTodo,
				Priority:    domain.TaskPriorityMedium,
				DueDate:     due.Add(time.Duration(1-i) * time.Hour),
				AssignedTo:  owner,
			}
			require.NoError(t, repos.Tasks.Create(ctx, task))
		}

		tasks, err := repos.Tasks.List(ctx, repository.TaskFilter{AssignedTo: owner, Limit: 10})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "first "+suffix, tasks[0].Title)

		total, err := repos.Tasks.Count(ctx, repository.TaskFilter{AssignedTo: owner})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)

		tasks[0].Status = domain.TaskStatusCompleted
		require.NoError(t, repos.Tasks.Update(ctx, &tasks[0]))
		assert.Equal(t, owner, tasks[0].AssignedTo)

		completed := domain.TaskStatusCompleted
		total, err = repos.Tasks.Count(ctx, repository.TaskFilter{AssignedTo: owner, Status: &completed})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("comments scoped to task", func(t *testing.T) {
		ctx := context.Background()
		taskID := domain.NewID()
		comment := &domain.Comment{TaskID: taskID, AuthorID: domain.NewID(), Message: "note " + suffix}
		require.NoError(t, repos.Comments.Create(ctx, comment))

		_, err := repos.Comments.GetForTask(ctx, domain.NewID(), comment.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		comment.Message = "edited " + suffix
		require.NoError(t, repos.Comments.Update(ctx, comment))
		assert.Equal(t, taskID, comment.TaskID)

		list, err := repos.Comments.List(ctx, repository.CommentFilter{TaskID: taskID, Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "edited "+suffix, list[0].Message)

		found, err := repos.Comments.SearchByMessage(ctx, "EDITED "+suffix, 100)
		require.NoError(t, err)
		assert.Len(t, found, 1)

		require.NoError(t, repos.Comments.Delete(ctx, comment.ID))
		total, err := repos.Comments.Count(ctx, repository.CommentFilter{TaskID: taskID})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

package service

import (
	"context"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

// TaskView is a task with its references resolved.
// AssignedTo is nil when the assignee was not populated; Comments is nil
// unless the thread was loaded.
type TaskView struct {
	Task       domain.Task
	AssignedTo *domain.UserRef
	Comments   []CommentView
}

// CommentView is a comment with its author resolved. Task is only set by search.
type CommentView struct {
	Comment domain.Comment
	Author  *domain.UserRef
	Task    *domain.TaskRef
}

// userRefs loads the referenced users. Missing users resolve to an id-only ref.
func userRefs(ctx context.Context, users repository.UserRepository, ids []string) (map[string]*domain.UserRef, error) {
	refs := make(map[string]*domain.UserRef, len(ids))
	found, err := users.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for i := range found {
		refs[found[i].ID] = found[i].Ref()
	}
	for _, id := range ids {
		if _, ok := refs[id]; !ok {
			refs[id] = &domain.UserRef{ID: id}
		}
	}
	return refs, nil
}

func taskRefs(ctx context.Context, tasks repository.TaskRepository, ids []string) (map[string]*domain.TaskRef, error) {
	refs := make(map[string]*domain.TaskRef, len(ids))
	found, err := tasks.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for i := range found {
		refs[found[i].ID] = found[i].Ref()
	}
	for _, id := range ids {
		if _, ok := refs[id]; !ok {
			refs[id] = &domain.TaskRef{ID: id}
		}
	}
	return refs, nil
}

// populateTasks resolves the assignee of every task.
func populateTasks(ctx context.Context, users repository.UserRepository, tasks []domain.Task) ([]TaskView, error) {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.AssignedTo)
	}
	refs, err := userRefs(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, AssignedTo: refs[t.AssignedTo]})
	}
	return views, nil
}

// populateComments resolves every comment's author.
func populateComments(ctx context.Context, users repository.UserRepository, comments []domain.Comment) ([]CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	refs, err := userRefs(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, Author: refs[c.AuthorID]})
	}
	return views, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const (
	msgCommentNotFound = "Comment"
	previewLength      = 80
)

// CommentService manages task threads.
type CommentService struct {
	comments repository.CommentRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
	logger   *zap.Logger
	publisher
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TaskRepo    repository.TaskRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// CommentCreateInput describes a new comment.
type CommentCreateInput struct {
	Message  string
	AuthorID string
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	logger := loggerOrNop(deps.Logger)
	return &CommentService{
		comments:  deps.CommentRepo,
		tasks:     deps.TaskRepo,
		users:     deps.UserRepo,
		logger:    logger,
		publisher: publisher{dispatcher: deps.Dispatcher, logger: logger},
	}
}

// ListForTask pages through a task's comments, newest first.
func (s *CommentService) ListForTask(ctx context.Context, rawTaskID string, pageNum, limit int) (PageResult[CommentView], error) {
	taskID, err := parseID(rawTaskID, "Invalid task ID format")
	if err != nil {
		return PageResult[CommentView]{}, err
	}
	if _, err := s.loadTask(ctx, taskID); err != nil {
		return PageResult[CommentView]{}, err
	}

	page := domain.NewPage(pageNum, limit, 0)
	filter := repository.CommentFilter{TaskID: taskID, Limit: page.Limit, Offset: page.Offset()}
	result, err := listAndCount(ctx, page,
		func(ctx context.Context) ([]domain.Comment, error) { return s.comments.List(ctx, filter) },
		func(ctx context.Context) (int64, error) { return s.comments.Count(ctx, filter) },
	)
	if err != nil {
		return PageResult[CommentView]{}, storeError(s.logger, "list comments", err)
	}
	views, err := populateComments(ctx, s.users, result.Items)
	if err != nil {
		return PageResult[CommentView]{}, storeError(s.logger, "populate comments", err)
	}
	return PageResult[CommentView]{Items: views, Page: page, Total: result.Total}, nil
}

// Get returns a comment only when it belongs to the task.
func (s *CommentService) Get(ctx context.Context, rawTaskID, rawCommentID string) (*CommentView, error) {
	ids, err := parseIDs(msgInvalidID, rawTaskID, rawCommentID)
	if err != nil {
		return nil, err
	}
	comment, err := s.load(ctx, ids[0], ids[1])
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, comment)
}

// Search matches messages as a literal case-insensitive substring, resolving author and task.
func (s *CommentService) Search(ctx context.Context, message string) ([]CommentView, error) {
	term, err := searchTerm(message, "Message query parameter is required")
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.SearchByMessage(ctx, term, SearchLimit)
	if err != nil {
		return nil, storeError(s.logger, "search comments", err)
	}
	views, err := populateComments(ctx, s.users, comments)
	if err != nil {
		return nil, storeError(s.logger, "populate comments", err)
	}

	taskIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		taskIDs = append(taskIDs, c.TaskID)
	}
	refs, err := taskRefs(ctx, s.tasks, taskIDs)
	if err != nil {
		return nil, storeError(s.logger, "populate comment tasks", err)
	}
	for i := range views {
		views[i].Task = refs[views[i].Comment.TaskID]
	}
	return views, nil
}

// Create adds a comment after checking, concurrently, that the task and the
// author exist. Nothing is written when either is missing.
func (s *CommentService) Create(ctx context.Context, rawTaskID string, input CommentCreateInput) (*CommentView, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" || strings.TrimSpace(input.AuthorID) == "" {
		return nil, apperrors.NewValidationError("Message and author_id are required", nil)
	}
	ids, err := parseIDs(msgInvalidID, rawTaskID, input.AuthorID)
	if err != nil {
		return nil, err
	}
	taskID, authorID := ids[0], ids[1]

	// Neither lookup cancels the other, so a missing task is reported ahead of
	// a missing author regardless of which finishes first.
	var (
		author    *domain.User
		taskErr   error
		authorErr error
		g         errgroup.Group
	)
	g.Go(func() error {
		_, taskErr = s.tasks.GetByID(ctx, taskID)
		return taskErr
	})
	g.Go(func() error {
		author, authorErr = s.users.GetByID(ctx, authorID)
		return authorErr
	})
	if err := g.Wait(); err != nil {
		switch {
		case isNotFound(taskErr):
			return nil, apperrors.NewNotFound(msgTaskNotFound, map[string]any{"task_id": taskID})
		case taskErr != nil:
			return nil, storeError(s.logger, "get task", taskErr)
		case isNotFound(authorErr):
			return nil, apperrors.NewNotFound(msgUserNotFound, map[string]any{"user_id": authorID})
		default:
			return nil, storeError(s.logger, "get user", authorErr)
		}
	}

	comment := &domain.Comment{TaskID: taskID, AuthorID: authorID, Message: message}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError(s.logger, "create comment", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventCommentAdded,
		SubjectID: comment.ID,
		ActorID:   authorID,
		Payload:   events.CommentPayload{TaskID: taskID, Preview: preview(message)},
	})
	return &CommentView{Comment: *comment, Author: author.Ref()}, nil
}

// Update rewrites a comment's message. Task and author never change.
func (s *CommentService) Update(ctx context.Context, rawTaskID, rawCommentID, rawMessage string) (*CommentView, error) {
	ids, err := parseIDs(msgInvalidID, rawTaskID, rawCommentID)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(rawMessage)
	if message == "" {
		return nil, apperrors.NewValidationError("Message is required", nil)
	}

	comment, err := s.load(ctx, ids[0], ids[1])
	if err != nil {
		return nil, err
	}
	comment.Message = message
	if err := s.comments.Update(ctx, comment); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgCommentNotFound, map[string]any{"comment_id": ids[1]})
		}
		return nil, storeError(s.logger, "update comment", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventCommentUpdated,
		SubjectID: comment.ID,
		ActorID:   comment.AuthorID,
		Payload:   events.CommentPayload{TaskID: comment.TaskID, Preview: preview(message)},
	})
	return s.populateOne(ctx, comment)
}

// Delete removes a comment that belongs to the task.
func (s *CommentService) Delete(ctx context.Context, rawTaskID, rawCommentID string) (string, error) {
	ids, err := parseIDs(msgInvalidID, rawTaskID, rawCommentID)
	if err != nil {
		return "", err
	}
	comment, err := s.load(ctx, ids[0], ids[1])
	if err != nil {
		return "", err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		if isNotFound(err) {
			return "", apperrors.NewNotFound(msgCommentNotFound, map[string]any{"comment_id": comment.ID})
		}
		return "", storeError(s.logger, "delete comment", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventCommentDeleted,
		SubjectID: comment.ID,
		Payload:   events.CommentPayload{TaskID: comment.TaskID},
	})
	return comment.ID, nil
}

func (s *CommentService) load(ctx context.Context, taskID, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetForTask(ctx, taskID, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgCommentNotFound, map[string]any{"task_id": taskID, "comment_id": commentID})
		}
		return nil, storeError(s.logger, "get comment", err)
	}
	return comment, nil
}

func (s *CommentService) loadTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgTaskNotFound, map[string]any{"task_id": id})
		}
		return nil, storeError(s.logger, "get task", err)
	}
	return task, nil
}

func (s *CommentService) populateOne(ctx context.Context, comment *domain.Comment) (*CommentView, error) {
	views, err := populateComments(ctx, s.users, []domain.Comment{*comment})
	if err != nil {
		return nil, storeError(s.logger, "populate comment", err)
	}
	return &views[0], nil
}

func preview(message string) string {
	runes := []rune(message)
	if len(runes) <= previewLength {
		return message
	}
	return string(runes[:previewLength]) + "…"
}

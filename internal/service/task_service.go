package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const (
	msgInvalidID        = "Invalid ID format"
	msgTaskNotFound     = "Task"
	msgTaskFieldsNeeded = "Title and description are required"
)

// TaskService coordinates task workflows.
type TaskService struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	logger   *zap.Logger
	publisher
}

// TaskDependencies bundles repositories for the task service.
type TaskDependencies struct {
	TaskRepo    repository.TaskRepository
	UserRepo    repository.UserRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TaskCreateInput describes task creation payload. Zero values take the defaults.
type TaskCreateInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// TaskUpdateInput carries the fields to change; nil means unchanged.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
}

// IsEmpty reports whether no field was supplied.
func (in TaskUpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil && in.Priority == nil && in.DueDate == nil
}

// TaskListFilter selects a page of one user's tasks.
type TaskListFilter struct {
	Page   int
	Limit  int
	Status string
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	logger := loggerOrNop(deps.Logger)
	return &TaskService{
		tasks:     deps.TaskRepo,
		users:     deps.UserRepo,
		comments:  deps.CommentRepo,
		logger:    logger,
		publisher: publisher{dispatcher: deps.Dispatcher, logger: logger},
	}
}

// ListForUser pages through the tasks assigned to a user, earliest due first.
func (s *TaskService) ListForUser(ctx context.Context, rawUserID string, filter TaskListFilter) (PageResult[TaskView], error) {
	userID, err := parseID(rawUserID, msgInvalidUserID)
	if err != nil {
		return PageResult[TaskView]{}, err
	}
	page := domain.NewPage(filter.Page, filter.Limit, 0)
	repoFilter := repository.TaskFilter{AssignedTo: userID, Limit: page.Limit, Offset: page.Offset()}
	if filter.Status != "" {
		status := domain.TaskStatus(filter.Status)
		if !status.Valid() {
			return PageResult[TaskView]{}, apperrors.NewValidationError("Invalid status value", map[string]any{"status": filter.Status})
		}
		repoFilter.Status = &status
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return PageResult[TaskView]{}, err
	}

	result, err := listAndCount(ctx, page,
		func(ctx context.Context) ([]domain.Task, error) { return s.tasks.List(ctx, repoFilter) },
		func(ctx context.Context) (int64, error) { return s.tasks.Count(ctx, repoFilter) },
	)
	if err != nil {
		return PageResult[TaskView]{}, storeError(s.logger, "list tasks", err)
	}
	views, err := populateTasks(ctx, s.users, result.Items)
	if err != nil {
		return PageResult[TaskView]{}, storeError(s.logger, "populate tasks", err)
	}
	return PageResult[TaskView]{Items: views, Page: page, Total: result.Total}, nil
}

// Search matches titles as a literal case-insensitive substring. Assignees stay unpopulated.
func (s *TaskService) Search(ctx context.Context, title string) ([]TaskView, error) {
	term, err := searchTerm(title, "Title query parameter is required")
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.SearchByTitle(ctx, term, SearchLimit)
	if err != nil {
		return nil, storeError(s.logger, "search tasks", err)
	}
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t})
	}
	return views, nil
}

// Get returns one task with its assignee and comment thread. Ownership is not checked.
func (s *TaskService) Get(ctx context.Context, rawUserID, rawTaskID string) (*TaskView, error) {
	ids, err := parseIDs(msgInvalidID, rawUserID, rawTaskID)
	if err != nil {
		return nil, err
	}
	task, err := s.load(ctx, ids[1])
	if err != nil {
		return nil, err
	}
	return s.populateFull(ctx, task)
}

// Create assigns a new task to an existing user.
func (s *TaskService) Create(ctx context.Context, rawUserID string, input TaskCreateInput) (*TaskView, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError(msgTaskFieldsNeeded, nil)
	}
	userID, err := parseID(rawUserID, msgInvalidUserID)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       title,
		Description: description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  userID,
	}
	if task.Status == "" {
		task.Status = domain.DefaultTaskStatus
	}
	if task.Priority == "" {
		task.Priority = domain.DefaultTaskPriority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate.UTC()
	}
	if err := validateTaskEnums(task); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgUserNotFound, map[string]any{"user_id": userID})
		}
		return nil, storeError(s.logger, "get user", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeError(s.logger, "create task", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTaskCreated,
		SubjectID: task.ID,
		ActorID:   userID,
		Payload:   events.TaskCreatedPayload{Title: task.Title, Priority: task.Priority, DueDate: task.DueDate},
	})
	return &TaskView{Task: *task, AssignedTo: owner.Ref()}, nil
}

// Update changes a task owned by the acting user. A foreign actor gets 403 and nothing changes.
func (s *TaskService) Update(ctx context.Context, rawUserID, rawTaskID string, input TaskUpdateInput) (*TaskView, error) {
	ids, err := parseIDs(msgInvalidID, rawUserID, rawTaskID)
	if err != nil {
		return nil, err
	}
	userID, taskID := ids[0], ids[1]
	if input.IsEmpty() {
		return nil, apperrors.NewValidationError(msgBodyRequired, nil)
	}

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssignedTo != userID {
		s.logger.Debug("task update rejected", zap.String("task_id", taskID), zap.String("actor_id", userID))
		return nil, apperrors.NewForbidden("Not authorized to update this task")
	}

	oldStatus := task.Status
	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate.UTC()
	}
	if task.Title == "" || task.Description == "" {
		return nil, apperrors.NewValidationError(msgTaskFieldsNeeded, nil)
	}
	if err := validateTaskEnums(task); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgTaskNotFound, map[string]any{"task_id": taskID})
		}
		return nil, storeError(s.logger, "update task", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTaskUpdated,
		SubjectID: task.ID,
		ActorID:   userID,
		Payload:   events.TaskUpdatedPayload{Title: task.Title, OldStatus: oldStatus, NewStatus: task.Status},
	})
	return s.populateFull(ctx, task)
}

// Delete removes a task owned by the acting user. Its comments are kept.
func (s *TaskService) Delete(ctx context.Context, rawUserID, rawTaskID string) (string, error) {
	ids, err := parseIDs(msgInvalidID, rawUserID, rawTaskID)
	if err != nil {
		return "", err
	}
	userID, taskID := ids[0], ids[1]

	task, err := s.load(ctx, taskID)
	if err != nil {
		return "", err
	}
	if task.AssignedTo != userID {
		return "", apperrors.NewForbidden("Not authorized to delete this task")
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if isNotFound(err) {
			return "", apperrors.NewNotFound(msgTaskNotFound, map[string]any{"task_id": taskID})
		}
		return "", storeError(s.logger, "delete task", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTaskDeleted,
		SubjectID: taskID,
		ActorID:   userID,
		Payload:   events.TaskDeletedPayload{Title: task.Title},
	})
	return taskID, nil
}

func (s *TaskService) load(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgTaskNotFound, map[string]any{"task_id": id})
		}
		return nil, storeError(s.logger, "get task", err)
	}
	return task, nil
}

func (s *TaskService) requireUser(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NewNotFound(msgUserNotFound, map[string]any{"user_id": id})
		}
		return storeError(s.logger, "get user", err)
	}
	return nil
}

// populateFull resolves the assignee and loads the thread oldest first.
func (s *TaskService) populateFull(ctx context.Context, task *domain.Task) (*TaskView, error) {
	comments, err := s.comments.List(ctx, repository.CommentFilter{TaskID: task.ID, Oldest: true})
	if err != nil {
		return nil, storeError(s.logger, "list task comments", err)
	}

	authorIDs := make([]string, 0, len(comments)+1)
	authorIDs = append(authorIDs, task.AssignedTo)
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	refs, err := userRefs(ctx, s.users, authorIDs)
	if err != nil {
		return nil, storeError(s.logger, "populate task", err)
	}

	view := &TaskView{Task: *task, AssignedTo: refs[task.AssignedTo], Comments: make([]CommentView, 0, len(comments))}
	for _, c := range comments {
		view.Comments = append(view.Comments, CommentView{Comment: c, Author: refs[c.AuthorID]})
	}
	return view, nil
}

func validateTaskEnums(task *domain.Task) error {
	if !task.Status.Valid() {
		return apperrors.NewValidationError("Invalid status value", map[string]any{"status": task.Status})
	}
	if !task.Priority.Valid() {
		return apperrors.NewValidationError("Invalid priority value", map[string]any{"priority": task.Priority})
	}
	return nil
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	"github.com/spec-kit/task-service/internal/repository/memory"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

type testEnv struct {
	repos    repository.Repositories
	users    *UserService
	tasks    *TaskService
	comments *CommentService
	auth     *AuthService
	events   *eventRecorder
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.NewStore().Repositories()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	events.SubscribeAll(dispatcher, events.AllEventTypes, recorder.handle)

	users := NewUserService(UserDependencies{UserRepo: repos.Users, Dispatcher: dispatcher})
	return &testEnv{
		repos: repos,
		users: users,
		tasks: NewTaskService(TaskDependencies{
			TaskRepo: repos.Tasks, UserRepo: repos.Users, CommentRepo: repos.Comments, Dispatcher: dispatcher,
		}),
		comments: NewCommentService(CommentDependencies{
			CommentRepo: repos.Comments, TaskRepo: repos.Tasks, UserRepo: repos.Users, Dispatcher: dispatcher,
		}),
		auth: NewAuthService(AuthDependencies{
			Users: users, TokenManager: auth.NewTokenManager("test", time.Hour), Dispatcher: dispatcher,
		}),
		events: recorder,
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), UserCreateInput{Name: name, Email: email})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTask(t *testing.T, userID, title string) *TaskView {
	t.Helper()
	view, err := e.tasks.Create(context.Background(), userID, TaskCreateInput{Title: title, Description: "desc"})
	require.NoError(t, err)
	return view
}

func requireCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code, "message: %s", domainErr.Message)
	require.Equal(t, status, domainErr.HTTPStatus)
}

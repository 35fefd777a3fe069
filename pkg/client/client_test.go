package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/task-service/internal/api/http"
	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository/memory"
	"github.com/spec-kit/task-service/internal/service"
)

type fiberTransport struct {
	app *fiber.App
}

func (f fiberTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return f.app.Test(req, -1)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	dispatcher := events.NewInMemoryDispatcher()

	users := service.NewUserService(service.UserDependencies{UserRepo: repos.Users, Dispatcher: dispatcher})
	tasks := service.NewTaskService(service.TaskDependencies{
		TaskRepo: repos.Tasks, UserRepo: repos.Users, CommentRepo: repos.Comments, Dispatcher: dispatcher,
	})
	comments := service.NewCommentService(service.CommentDependencies{
		CommentRepo: repos.Comments, TaskRepo: repos.Tasks, UserRepo: repos.Users, Dispatcher: dispatcher,
	})
	tokens := auth.NewTokenManager("client-test", time.Hour)
	authService := service.NewAuthService(service.AuthDependencies{Users: users, TokenManager: tokens})

	return httptransport.NewServer(httptransport.ServerConfig{AppName: "client-test"}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("task-service", "test"),
		Users:          handlers.NewUsersHandler(users, authService),
		Tasks:          handlers.NewTasksHandler(tasks),
		Comments:       handlers.NewCommentsHandler(comments),
		Activity:       handlers.NewActivityHandler(service.NewActivityService(service.ActivityDependencies{})),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.Users, false),
	})
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fiber.App) {
	t.Helper()
	app := newTestApp(t)
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: fiberTransport{app: app}})}, opts...)
	return New("http://api.test/api/", opts...), app
}

func TestClient_UserLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	user, err := c.CreateUser(ctx, CreateUserInput{UserName: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleMember, user.Role)

	_, err = c.CreateUser(ctx, CreateUserInput{UserName: "Ann", Email: "ann@example.com"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, "User already exists with this email", apiErr.Message)

	list, err := c.ListUsers(ctx, ListUsersOptions{Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalUsers)

	admin := domain.UserRoleAdmin
	updated, err := c.UpdateUser(ctx, user.ID, UpdateUserInput{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, updated.Role)

	found, err := c.SearchUsers(ctx, "AN")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, c.DeleteUser(ctx, user.ID))
	_, err = c.GetUser(ctx, user.ID)
	assert.True(t, IsNotFound(err))
}

func TestClient_TasksAndComments(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	owner, err := c.CreateUser(ctx, CreateUserInput{UserName: "Owner", Email: "owner@example.com"})
	require.NoError(t, err)

	due := &Date{Time: time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)}
	task, err := c.CreateTask(ctx, owner.ID, CreateTaskInput{Title: "Plan", Description: "sprint", DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.True(t, task.AssignedTo.Populated)
	assert.Equal(t, "Owner", task.AssignedTo.UserName)
	assert.True(t, due.Time.Equal(task.DueDate))

	comment, err := c.CreateComment(ctx, task.ID, owner.ID, "kickoff")
	require.NoError(t, err)
	assert.Equal(t, "Owner", comment.AuthorID.UserName)

	fetched, err := c.GetTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Comments, 1)

	blocked := domain.TaskStatusBlocked
	updated, err := c.UpdateTask(ctx, owner.ID, task.ID, UpdateTaskInput{Status: &blocked})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusBlocked, updated.Status)

	tasks, err := c.ListTasks(ctx, owner.ID, ListTasksOptions{Status: "blocked"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, tasks.TotalTasks)

	searched, err := c.SearchTasks(ctx, "pla")
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.False(t, searched[0].AssignedTo.Populated)
	assert.Equal(t, owner.ID, searched[0].AssignedTo.ID)

	edited, err := c.UpdateComment(ctx, task.ID, comment.ID, "kickoff moved")
	require.NoError(t, err)
	assert.Equal(t, "kickoff moved", edited.Message)

	hits, err := c.SearchComments(ctx, "MOVED")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Plan", hits[0].TaskID.Title)

	page, err := c.ListComments(ctx, task.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalComments)

	deletedComment, err := c.DeleteComment(ctx, task.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, deletedComment)

	deletedTask, err := c.DeleteTask(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deletedTask)
}

func TestClient_ConcurrentCommentCreates(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	owner, err := c.CreateUser(ctx, CreateUserInput{UserName: "Owner", Email: "owner@example.com"})
	require.NoError(t, err)
	task, err := c.CreateTask(ctx, owner.ID, CreateTaskInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	ids := make([]string, 2)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			comment, err := c.CreateComment(ctx, task.ID, owner.ID, "same time")
			if assert.NoError(t, err) {
				ids[i] = comment.ID
			}
		}(i)
	}
	wg.Wait()
	assert.NotEqual(t, ids[0], ids[1])
}

func TestClient_LoginAndToken(t *testing.T) {
	c, app := newTestClient(t)
	ctx := context.Background()
	ann, err := c.CreateUser(ctx, CreateUserInput{UserName: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	bob, err := c.CreateUser(ctx, CreateUserInput{UserName: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	session, err := c.Login(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, session.User.ID)

	asAnn := New("http://api.test/api", WithHTTPClient(&http.Client{Transport: fiberTransport{app: app}}), WithToken(session.Token))
	_, err = asAnn.CreateTask(ctx, bob.ID, CreateTaskInput{Title: "t", Description: "d"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	_, err = asAnn.CreateTask(ctx, ann.ID, CreateTaskInput{Title: "t", Description: "d"})
	assert.NoError(t, err)
}

func TestClient_FallbackMessages(t *testing.T) {
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("<html>bad gateway</html>")),
			Header:     http.Header{},
			Request:    req,
		}, nil
	})
	c := New("http://api.test/api", WithHTTPClient(&http.Client{Transport: transport}))

	_, err := c.ListUsers(context.Background(), ListUsersOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to fetch users", apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)

	_, err = c.CreateComment(context.Background(), "t", "u", "m")
	assert.EqualError(t, err, "Failed to create comment")
}

func TestClient_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	c := New("http://api.test/api", WithHTTPClient(&http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})}))

	_, err := c.GetTask(context.Background(), "u", "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Failed to fetch task")
	assert.False(t, IsNotFound(err))
}

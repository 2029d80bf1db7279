package rest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const (
	aliceID = "11111111-1111-1111-1111-111111111111"
	bobID   = "22222222-2222-2222-2222-222222222222"
)

// fakeUsers issues tokens of the form "token-<userID>-<n>" and keeps
// accounts in memory.
type fakeUsers struct {
	mu       sync.Mutex
	byEmail  map[string]*models.User
	password map[string]string
	issued   int
	ids      []string

	listErr   error
	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail:  map[string]*models.User{},
		password: map[string]string{},
		ids:      []string{aliceID, bobID},
	}
}

func (f *fakeUsers) token(userID string) string {
	f.issued++
	return fmt.Sprintf("token-%s-%d", userID, f.issued)
}

func (f *fakeUsers) VerifyToken(token string) (string, error) {
	rest, ok := strings.CutPrefix(token, "token-")
	if !ok || len(rest) < 36 {
		return "", common.ErrInvalidToken
	}
	return rest[:36], nil
}

func (f *fakeUsers) CreateUser(_ context.Context, email, password, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if email == "" || password == "" || username == "" {
		return nil, common.NewValidationError("Email, password, and username are required")
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if len(f.ids) == 0 {
		return nil, errors.New("fake: out of ids")
	}
	u := &models.User{ID: f.ids[0], Email: email, UserName: username, PasswordHash: "hash:" + password, CreatedAt: time.Now()}
	f.ids = f.ids[1:]
	f.byEmail[email] = u
	f.password[email] = password
	return u, nil
}

func (f *fakeUsers) Register(ctx context.Context, email, password, username string) (string, error) {
	u, err := f.CreateUser(ctx, email, password, username)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token(u.ID), nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if email == "" || password == "" {
		return "", common.NewValidationError("Email and password are required")
	}
	u, ok := f.byEmail[email]
	if !ok || f.password[email] != password {
		return "", common.ErrorUnauthorized
	}
	return f.token(u.ID), nil
}

func (f *fakeUsers) ListUsers(context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.User
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, callerID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if callerID != userID {
		return common.ErrorForbidden
	}
	for email, u := range f.byEmail {
		if u.ID == userID {
			delete(f.byEmail, email)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeTasks struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
	next  int

	err error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: map[string]*models.Task{}}
}

func (f *fakeTasks) Create(_ context.Context, userID string, in models.TaskPatch) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t := &models.Task{UserID: userID, Status: models.TaskStatusPending, Priority: models.TaskPriorityMedium}
	in.Apply(t)
	if t.Title == "" {
		return nil, common.NewValidationError("Title is required")
	}
	f.next++
	t.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.next)
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTasks) Update(_ context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	patch.Apply(t)
	return t, nil
}

func (f *fakeTasks) Delete(_ context.Context, userID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeTasks) List(_ context.Context, userID string) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

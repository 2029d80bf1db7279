package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	tasksrepo "github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

// memUsers is an in-memory users.Repository that enforces email uniqueness
// the way the unique index does.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	nextID int

	createErr error
	getErr    error
	listErr   error
	deleteErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	m.nextID++
	stored := *u
	stored.ID = fmt.Sprintf("user-%d", m.nextID)
	stored.CreatedAt = time.Now()
	m.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) List(context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.User, 0, len(m.byID))
	for _, u := range m.byID {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

// memTasks is an in-memory tasks.Repository scoped by owner like the SQL one.
type memTasks struct {
	mu     sync.Mutex
	byID   map[string]*models.Task
	nextID int

	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newMemTasks() *memTasks {
	return &memTasks{byID: map[string]*models.Task{}}
}

func (m *memTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	stored := *t
	stored.ID = fmt.Sprintf("task-%d", m.nextID)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memTasks) GetByID(_ context.Context, userID, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (m *memTasks) Update(_ context.Context, t *models.Task) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	existing, ok := m.byID[t.ID]
	if !ok || existing.UserID != t.UserID {
		return nil, common.ErrorNotFound
	}
	stored := *t
	stored.UpdatedAt = time.Now()
	m.byID[t.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memTasks) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	t, ok := m.byID[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memTasks) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Task, 0)
	for _, t := range m.byID {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	users *memUsers
	tasks *memTasks
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newMemUsers(), tasks: newMemTasks()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasksrepo.Repository          { return m.tasks }

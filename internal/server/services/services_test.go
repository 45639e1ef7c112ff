package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/dbx"
	"github.com/taskvault/taskvault/internal/server/config"
	"github.com/taskvault/taskvault/internal/server/models"
	"github.com/taskvault/taskvault/internal/server/repositories/refreshsessions"
	"github.com/taskvault/taskvault/internal/server/repositories/tasks"
	"github.com/taskvault/taskvault/internal/server/repositories/users"
)

// memStore is an in-memory stand-in for the Postgres repositories. It
// implements the same contracts, including the conditional update semantics
// of Rotate, so service tests exercise real control flow without a database.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User // by normalized email
	sessions map[string]string      // userID -> current token ID
	tasks    map[string]*models.Task

	// block, when set, makes every repository call wait for context
	// cancellation instead of answering.
	block bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		sessions: make(map[string]string),
		tasks:    make(map[string]*models.Task),
	}
}

func (m *memStore) wait(ctx context.Context) error {
	if !m.block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *memStore) Users(db dbx.DBTX) users.Repository                     { return (*memUsers)(m) }
func (m *memStore) RefreshSessions(db dbx.DBTX) refreshsessions.Repository { return (*memSessions)(m) }
func (m *memStore) Tasks(db dbx.DBTX) tasks.Repository                     { return (*memTasks)(m) }
func (m *memStore) RunMigrations(ctx context.Context, db *sql.DB) error    { return nil }

type memUsers memStore

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return nil, common.ErrEmailExists
	}
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.users[user.Email] = &stored
	return &stored, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type memSessions memStore

func (m *memSessions) Upsert(ctx context.Context, userID, tokenID string, validity time.Duration) error {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = tokenID
	return nil
}

func (m *memSessions) Rotate(ctx context.Context, userID, oldTokenID, newTokenID string, validity time.Duration) error {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[userID] != oldTokenID {
		return common.ErrNotFound
	}
	m.sessions[userID] = newTokenID
	return nil
}

func (m *memSessions) Delete(ctx context.Context, userID string) error {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

type memTasks memStore

func (m *memTasks) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *task
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.tasks[task.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *memTasks) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *memTasks) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memTasks) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return nil, common.ErrNotFound
	}
	stored := *task
	stored.UpdatedAt = time.Now()
	m.tasks[task.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *memTasks) Delete(ctx context.Context, id string) error {
	if err := (*memStore)(m).wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreTimeout = time.Second
	return cfg
}

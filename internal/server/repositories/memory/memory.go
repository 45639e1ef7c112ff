// Package memory provides an in-memory RepositoryManager with the same
// contract semantics as the Postgres implementation, including the
// conditional-update behavior of refresh rotation. It backs handler tests
// and local experimentation; it is not meant for production use.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/dbx"
	"github.com/taskvault/taskvault/internal/server/models"
	"github.com/taskvault/taskvault/internal/server/repositories/refreshsessions"
	"github.com/taskvault/taskvault/internal/server/repositories/tasks"
	"github.com/taskvault/taskvault/internal/server/repositories/users"
)

// Manager keeps all records in process memory behind one mutex. The DBTX
// arguments are ignored; there are no real transactions, so the atomicity
// guarantees of the Postgres manager only hold per call.
type Manager struct {
	mu       sync.Mutex
	users    map[string]*models.User // keyed by normalized email
	sessions map[string]string      // userID -> current refresh token ID
	tasks    map[string]*models.Task
}

// NewManager returns an empty in-memory manager.
func NewManager() *Manager {
	return &Manager{
		users:    make(map[string]*models.User),
		sessions: make(map[string]string),
		tasks:    make(map[string]*models.Task),
	}
}

func (m *Manager) Users(db dbx.DBTX) users.Repository                     { return (*userRepo)(m) }
func (m *Manager) RefreshSessions(db dbx.DBTX) refreshsessions.Repository { return (*sessionRepo)(m) }
func (m *Manager) Tasks(db dbx.DBTX) tasks.Repository                     { return (*taskRepo)(m) }

// RunMigrations is a no-op; there is no schema.
func (m *Manager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

type userRepo Manager

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return nil, common.ErrEmailExists
	}
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[user.Email] = &stored
	copied := stored
	return &copied, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type sessionRepo Manager

func (r *sessionRepo) Upsert(ctx context.Context, userID, tokenID string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = tokenID
	return nil
}

func (r *sessionRepo) Rotate(ctx context.Context, userID, oldTokenID, newTokenID string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[userID] != oldTokenID {
		return common.ErrNotFound
	}
	r.sessions[userID] = newTokenID
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

type taskRepo Manager

func (r *taskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *task
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.tasks[task.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *taskRepo) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			copied := *task
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *taskRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return nil, common.ErrNotFound
	}
	stored := *task
	stored.UpdatedAt = time.Now()
	r.tasks[task.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

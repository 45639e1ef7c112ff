package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/server/config"
	"github.com/taskvault/taskvault/internal/server/models"
	"github.com/taskvault/taskvault/internal/server/repositories/repomanager"
)

const maxTitleLength = 500

// TaskInput carries the caller-supplied task fields. The owning account is
// never part of the input; it always comes from the verified identity.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

// TaskService implements task CRUD scoped to the authenticated account.
// Absent resources and resources owned by someone else are reported as
// distinct errors (ErrNotFound vs ErrForbidden).
type TaskService struct {
	db           *sql.DB
	repos        repomanager.RepositoryManager
	storeTimeout time.Duration
}

// NewTaskService constructs the task service.
func NewTaskService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *TaskService {
	return &TaskService{
		db:           db,
		repos:        repos,
		storeTimeout: cfg.StoreTimeout,
	}
}

func validateInput(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if len(in.Title) > maxTitleLength {
		return fmt.Errorf("%w: title too long", common.ErrValidation)
	}

	if in.Status == "" {
		in.Status = models.TaskStatusPending
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrValidation, in.Status)
	}

	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", common.ErrValidation, in.Priority)
	}

	return nil
}

// Create inserts a new task owned by accountID.
func (s *TaskService) Create(ctx context.Context, accountID string, in TaskInput) (*models.Task, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      accountID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}

	err := withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		var createErr error
		task, createErr = s.repos.Tasks(s.db).Create(ctx, task)
		return createErr
	})
	if err != nil {
		return nil, storeFailure("creating task", err)
	}

	return task, nil
}

// List returns the account's tasks, newest first. Never anyone else's.
func (s *TaskService) List(ctx context.Context, accountID string) ([]*models.Task, error) {
	var result []*models.Task
	err := withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		var listErr error
		result, listErr = s.repos.Tasks(s.db).ListByUser(ctx, accountID)
		return listErr
	})
	if err != nil {
		return nil, storeFailure("listing tasks", err)
	}
	return result, nil
}

// Get returns the task when it exists and accountID owns it.
func (s *TaskService) Get(ctx context.Context, accountID, taskID string) (*models.Task, error) {
	return s.owned(ctx, accountID, taskID)
}

// Update replaces all mutable fields of an owned task.
func (s *TaskService) Update(ctx context.Context, accountID, taskID string, in TaskInput) (*models.Task, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	task, err := s.owned(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = in.Status
	task.Priority = in.Priority
	task.DueDate = in.DueDate

	err = withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		var updateErr error
		task, updateErr = s.repos.Tasks(s.db).Update(ctx, task)
		return updateErr
	})
	if err != nil {
		return nil, storeFailure("updating task", err)
	}

	return task, nil
}

// Patch updates only the provided fields of an owned task.
func (s *TaskService) Patch(ctx context.Context, accountID, taskID string, patch TaskPatch) (*models.Task, error) {
	task, err := s.owned(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	in := TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	task.Title = in.Title
	task.Status = in.Status
	task.Priority = in.Priority

	err = withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		var updateErr error
		task, updateErr = s.repos.Tasks(s.db).Update(ctx, task)
		return updateErr
	})
	if err != nil {
		return nil, storeFailure("patching task", err)
	}

	return task, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, accountID, taskID string) error {
	if _, err := s.owned(ctx, accountID, taskID); err != nil {
		return err
	}

	err := withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.repos.Tasks(s.db).Delete(ctx, taskID)
	})
	if err != nil {
		return storeFailure("deleting task", err)
	}
	return nil
}

// owned fetches the task and enforces the isolation rule: the scoping
// identity is always the one resolved by the middleware. An absent row is
// ErrNotFound; a row owned by a different account is ErrForbidden.
func (s *TaskService) owned(ctx context.Context, accountID, taskID string) (*models.Task, error) {
	var task *models.Task
	err := withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		var getErr error
		task, getErr = s.repos.Tasks(s.db).GetByID(ctx, taskID)
		return getErr
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrUnavailable) {
			return nil, err
		}
		return nil, storeFailure("fetching task", err)
	}

	if task.UserID != accountID {
		return nil, common.ErrForbidden
	}

	return task, nil
}

// storeFailure wraps unexpected repository errors, letting sentinel values
// pass through untouched.
func storeFailure(op string, err error) error {
	if errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

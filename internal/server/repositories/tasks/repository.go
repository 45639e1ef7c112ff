// Package tasks provides persistence for todo items. Ownership checks live
// in the service layer, which needs to distinguish an absent row from a row
// owned by another account.
package tasks

import (
	"context"

	"github.com/taskvault/taskvault/internal/server/models"
)

// Repository is the persistence contract for tasks.
type Repository interface {
	// Create inserts a new task and returns it with timestamps populated.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// GetByID returns the task with the given ID regardless of owner, or
	// common.ErrNotFound. Callers compare the owner against the identity
	// resolved by the middleware.
	GetByID(ctx context.Context, id string) (*models.Task, error)

	// ListByUser returns all tasks owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)

	// Update persists the mutable fields of the task.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)

	// Delete removes the task by ID.
	Delete(ctx context.Context, id string) error
}

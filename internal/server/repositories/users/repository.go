// Package users provides the credential store: persistence of account
// records keyed by a unique, case-normalized email.
package users

import (
	"context"

	"github.com/taskvault/taskvault/internal/server/models"
)

// Repository is the persistence contract for accounts.
type Repository interface {
	// Create inserts a new account. A duplicate email fails atomically with
	// common.ErrEmailExists; no partial record is left behind.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the account with the given normalized email, or
	// common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

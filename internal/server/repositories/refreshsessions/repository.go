// Package refreshsessions tracks the refresh lineage: the token ID of the
// most recently issued refresh token per account. Rotation supersedes the
// previous entry atomically so at most one refresh token is ever current.
package refreshsessions

import (
	"context"
	"time"
)

// Repository is the persistence contract for refresh lineage entries.
type Repository interface {
	// Upsert records tokenID as the account's current refresh token,
	// superseding whatever was there before. Called on signup and signin.
	Upsert(ctx context.Context, userID, tokenID string, validity time.Duration) error

	// Rotate atomically replaces oldTokenID with newTokenID for the account.
	// It is a single conditional update: when the stored token ID no longer
	// matches oldTokenID (already rotated, concurrent refresh lost the race,
	// or no session exists) it returns common.ErrNotFound and nothing
	// changes.
	Rotate(ctx context.Context, userID, oldTokenID, newTokenID string, validity time.Duration) error

	// Delete removes the account's lineage entry. Used on logout.
	Delete(ctx context.Context, userID string) error
}

// Package services contains the business logic orchestrating repositories,
// the token service, and the password hasher.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/taskvault/taskvault/internal/common"
)

// withStoreTimeout bounds a credential-store round trip and reports a timeout
// as common.ErrUnavailable, so transient infrastructure failure is never
// conflated with a business rejection.
func withStoreTimeout(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	err := fn(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrUnavailable
	}
	return err
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/dbx"
	"github.com/taskvault/taskvault/internal/server/auth"
	"github.com/taskvault/taskvault/internal/server/config"
	"github.com/taskvault/taskvault/internal/server/models"
	"github.com/taskvault/taskvault/internal/server/password"
	"github.com/taskvault/taskvault/internal/server/repositories/repomanager"
)

// TokenPair is one issuance event: an access token and a refresh token
// sharing the same subject with independent expiries.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements signup, signin, refresh rotation, and logout.
type AuthService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	tokens          *auth.Service
	hasher          password.Hasher
	refreshValidity time.Duration
	storeTimeout    time.Duration
}

// NewAuthService wires the auth flows together.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, tokens *auth.Service, hasher password.Hasher, cfg *config.Config) *AuthService {
	return &AuthService{
		db:              db,
		repos:           repos,
		tokens:          tokens,
		hasher:          hasher,
		refreshValidity: cfg.RefreshTokenValidityDuration,
		storeTimeout:    cfg.StoreTimeout,
	}
}

// normalizeEmail lowercases and trims the address and validates its format.
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", common.ErrInvalidEmail
	}

	parsed, err := mail.ParseAddress(normalized)
	if err != nil || parsed.Address != normalized {
		return "", common.ErrInvalidEmail
	}

	return normalized, nil
}

// errInvalidCredentials is the single construction point for every signin
// failure. Unknown email and wrong password go through here so the two cases
// can never drift apart and leak which check failed.
func errInvalidCredentials() error {
	return common.ErrInvalidCredentials
}

// issuePair creates a fresh access+refresh pair for the account and returns
// the refresh token's ID for lineage recording.
func (s *AuthService) issuePair(accountID string) (*TokenPair, string, error) {
	accessToken, err := s.tokens.IssueAccessToken(accountID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing access token: %w", err)
	}

	refreshToken, tokenID, err := s.tokens.IssueRefreshToken(accountID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, tokenID, nil
}

// SignUp creates a new account and issues its first token pair. The account
// row and the refresh lineage entry are written in one transaction, so a
// duplicate email fails atomically without a partial record.
func (s *AuthService) SignUp(ctx context.Context, email, plaintext string) (*models.User, *TokenPair, error) {

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	pair, tokenID, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, common.ErrInternal
	}

	err = withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := s.repos.Users(tx).Create(ctx, user); err != nil {
				return err
			}
			return s.repos.RefreshSessions(tx).Upsert(ctx, user.ID, tokenID, s.refreshValidity)
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) || errors.Is(err, common.ErrUnavailable) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("creating account: %w", err)
	}

	return user, pair, nil
}

// SignIn authenticates by email and password and issues a fresh pair,
// superseding the account's previous refresh lineage. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, plaintext string) (*models.User, *TokenPair, error) {

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, errInvalidCredentials()
	}

	var user *models.User
	err = withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		var lookupErr error
		user, lookupErr = s.repos.Users(s.db).GetByEmail(ctx, email)
		return lookupErr
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, errInvalidCredentials()
		}
		if errors.Is(err, common.ErrUnavailable) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("looking up account: %w", err)
	}

	if err := s.hasher.Verify(plaintext, user.PasswordHash); err != nil {
		return nil, nil, errInvalidCredentials()
	}

	pair, tokenID, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, common.ErrInternal
	}

	err = withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.repos.RefreshSessions(s.db).Upsert(ctx, user.ID, tokenID, s.refreshValidity)
	})
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("recording refresh session: %w", err)
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair and
// atomically supersedes the presented token in the account's lineage. A
// token that was already rotated away is rejected even before its natural
// expiry; when two concurrent calls race on the same token, exactly one
// wins and the other is treated as already superseded.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	identity, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}

	pair, tokenID, err := s.issuePair(identity.AccountID)
	if err != nil {
		return nil, common.ErrInternal
	}

	err = withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.repos.RefreshSessions(s.db).Rotate(ctx, identity.AccountID, identity.TokenID, tokenID, s.refreshValidity)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// superseded lineage entry, or the losing side of a concurrent
			// rotation
			return nil, common.ErrTokenInvalid
		}
		if errors.Is(err, common.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("rotating refresh session: %w", err)
	}

	return pair, nil
}

// Logout drops the account's refresh lineage so the outstanding refresh
// token can no longer be exchanged. Access tokens remain valid until expiry;
// the client is expected to discard both.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	err := withStoreTimeout(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.repos.RefreshSessions(s.db).Delete(ctx, accountID)
	})
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			return err
		}
		return fmt.Errorf("deleting refresh session: %w", err)
	}
	return nil
}

// Package auth implements the stateless token service: creation and
// verification of signed bearer tokens (access and refresh) carrying an
// account identity claim.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/common"
)

// Kind distinguishes access tokens from refresh tokens. A token of one kind
// is never accepted where the other is expected.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims carries the registered JWT claims plus the token kind. Subject holds
// the account identifier, ID (jti) identifies the issuance for refresh
// lineage tracking.
type Claims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"kind"`
}

// Identity is the result of a successful verification.
type Identity struct {
	AccountID string
	TokenID   string
}

// Service issues and verifies HS256-signed JWTs. Verification is a pure
// function of the token and the secret, so a single Service is safe to share
// across request goroutines.
type Service struct {
	secret          []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
}

// NewService constructs a token service. The secret is passed explicitly so
// verification stays testable; it must never appear in logs or error text.
func NewService(secretKey string, accessValidity, refreshValidity time.Duration) *Service {
	return &Service{
		secret:          []byte(secretKey),
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
	}
}

// IssueAccessToken creates a signed access token for the account.
func (s *Service) IssueAccessToken(accountID string) (string, error) {
	token, _, err := s.issue(accountID, KindAccess, s.accessValidity)
	return token, err
}

// IssueRefreshToken creates a signed refresh token for the account and
// returns it together with its token identifier (jti), which callers record
// as the account's current refresh lineage entry.
func (s *Service) IssueRefreshToken(accountID string) (string, string, error) {
	return s.issue(accountID, KindRefresh, s.refreshValidity)
}

func (s *Service) issue(accountID string, kind Kind, validity time.Duration) (string, string, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Kind: kind,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	return signed, tokenID, nil
}

// Verify checks the token's signature, expiry, and subject claim, in that
// order, and requires the token to be of the given kind. Failures map to
// common.ErrTokenExpired for expired tokens and common.ErrTokenInvalid for
// everything else (bad signature, malformed input, wrong kind, missing
// subject).
func (s *Service) Verify(tokenString string, kind Kind) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	if !token.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, common.ErrTokenInvalid
	}

	return &Identity{AccountID: claims.Subject, TokenID: claims.ID}, nil
}

package models

import "time"

// RefreshSession is the refresh lineage entry for one account: the token ID
// (jti) of the most recently issued refresh token. At most one session per
// account is current; presenting any earlier refresh token is rejected even
// before its natural expiry.
type RefreshSession struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// Package models defines the persistent data structures shared by the
// repositories and services.
package models

import "time"

// User is one account record: the identifier is opaque and stable for the
// account's lifetime, the email is unique and stored case-normalized, and
// PasswordHash is the bcrypt output (the plaintext is never persisted).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

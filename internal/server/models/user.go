// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. PasswordHash holds an argon2id encoding, never the
// plaintext password, and is not serialised.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// User represents a registered account. Uniqueness of Username and Email
// is enforced by the database; Confirmed is write-once true.
type User struct {
	ID             int64     `json:"id"               db:"id"`
	Username       string    `json:"username"         db:"username"`
	Email          string    `json:"email"            db:"email"`
	HashedPassword string    `json:"-"                db:"hashed_password"`
	Avatar         *string   `json:"avatar,omitempty" db:"avatar"`
	Confirmed      bool      `json:"confirmed"        db:"confirmed"`
	CreatedAt      time.Time `json:"created_at"       db:"created_at"`
}

// CreateUserRequest holds fields for registering a user.
// Password carries the plaintext only until the service hashes it.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims whitespace from identifying fields.
func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks required fields.
func (r *CreateUserRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// IdentitySnapshot is the denormalized identity record stored in the
// cache. It is a possibly-stale optimization, never a source of truth;
// the persisted user row always wins on conflict.
type IdentitySnapshot struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
}

// SnapshotOf builds a fresh snapshot from an authoritative user row.
func SnapshotOf(u *User) IdentitySnapshot {
	return IdentitySnapshot{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

package model

import (
	"errors"
	"strings"
	"time"
)

// Contact represents an address-book entry owned by a single user.
type Contact struct {
	ID        int64     `json:"id"                   db:"id"`
	Name      string    `json:"name"                 db:"name"`
	Surname   string    `json:"surname"              db:"surname"`
	Email     string    `json:"email"                db:"email"`
	Phone     string    `json:"phone"                db:"phone"`
	BirthDate time.Time `json:"birth_date"           db:"birth_date"`
	ExtraInfo *string   `json:"extra_info,omitempty" db:"extra_info"`
	UserID    int64     `json:"-"                    db:"user_id"`
}

// CreateContactRequest holds fields for creating a contact.
type CreateContactRequest struct {
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	BirthDate time.Time `json:"birth_date"`
	ExtraInfo *string   `json:"extra_info,omitempty"`
}

// Normalize trims whitespace from identifying fields.
func (r *CreateContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// Validate checks required fields.
func (r *CreateContactRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Surname == "" {
		return errors.New("surname is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if r.Phone == "" {
		return errors.New("phone is required")
	}
	if r.BirthDate.IsZero() {
		return errors.New("birth_date is required")
	}
	return nil
}

// UpdateContactRequest holds fields for a partial contact update.
// Nil fields are left unchanged.
type UpdateContactRequest struct {
	Name      *string    `json:"name,omitempty"`
	Surname   *string    `json:"surname,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	ExtraInfo *string    `json:"extra_info,omitempty"`
}

// ContactListOptions holds list filters and pagination.
type ContactListOptions struct {
	Name    *string
	Surname *string
	Email   *string
	Limit   int
	Offset  int
}

const (
	defaultContactListLimit = 10
	maxContactListLimit     = 100
)

// Normalize clamps pagination to sane bounds.
func (o *ContactListOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = defaultContactListLimit
	}
	if o.Limit > maxContactListLimit {
		o.Limit = maxContactListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

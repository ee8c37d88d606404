// Package core defines the interfaces between the service layer and its
// collaborators. This follows the hexagonal architecture pattern where the
// core defines interfaces and the data/adapter layers provide implementations.
package core

import (
	"context"
	"io"
	"time"

	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

// UserRepository defines durable storage for user accounts. It is the
// source of truth for identity; its faults are never absorbed.
type UserRepository interface {
	// FindByID retrieves a user by primary key.
	// Returns data.ErrUserNotFound if no row matches.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername retrieves a user by unique username.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail retrieves a user by unique email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create inserts a new, unconfirmed user. Unique-constraint
	// violations surface as data.ErrDuplicateUsername or
	// data.ErrDuplicateEmail so registration races can be translated
	// to a conflict instead of a storage fault.
	Create(ctx context.Context, req model.CreateUserRequest, hashedPassword string, avatar *string) (*model.User, error)

	// ConfirmEmail sets the confirmed flag for the given email.
	// The flag is write-once true; there is no un-confirm path.
	ConfirmEmail(ctx context.Context, email string) error

	// UpdateAvatar stores a new avatar URL for the given email and
	// returns the updated row.
	UpdateAvatar(ctx context.Context, email, url string) (*model.User, error)
}

// ContactRepository defines durable storage for contacts. Every query is
// scoped to the owning user; a contact belonging to someone else behaves
// exactly like a missing one.
type ContactRepository interface {
	Create(ctx context.Context, userID int64, req model.CreateContactRequest) (*model.Contact, error)
	GetByID(ctx context.Context, userID, contactID int64) (*model.Contact, error)
	List(ctx context.Context, userID int64, opts model.ContactListOptions) ([]*model.Contact, error)
	Replace(ctx context.Context, userID, contactID int64, req model.CreateContactRequest) (*model.Contact, error)
	Update(ctx context.Context, userID, contactID int64, req model.UpdateContactRequest) (*model.Contact, error)
	Delete(ctx context.Context, userID, contactID int64) (bool, error)

	// UpcomingBirthdays lists contacts whose birthday (month/day) falls
	// within the next `days` days, including year wrap-around.
	UpcomingBirthdays(ctx context.Context, userID int64, days int) ([]*model.Contact, error)
}

// CacheRepository defines the raw key-value store operations backing the
// identity cache. Implementations may fail on network faults; the
// fault-absorption policy lives one level up, in the identity cache.
type CacheRepository interface {
	// Set stores a value with the given key and TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetTTL updates the TTL for an existing key.
	// Returns true if the key exists and the TTL was updated.
	SetTTL(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Health checks the health of the store connection.
	Health(ctx context.Context) error
}

// EmailSender delivers confirmation emails. Calls are fire-and-forget
// from the caller's point of view; failures are logged, never returned
// to the registering user.
type EmailSender interface {
	Send(ctx context.Context, toAddress, username, baseURL string) error
}

// AvatarStore uploads avatar images to third-party hosting and returns
// the public URL. Upload is synchronous; its faults propagate as service
// faults.
type AvatarStore interface {
	Upload(ctx context.Context, body io.Reader, publicID string) (string, error)
}

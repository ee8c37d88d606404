package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

const birthdayLookaheadDays = 7

// ContactServiceOptions groups dependencies for ContactService.
type ContactServiceOptions struct {
	Repo   core.ContactRepository // Required: contact persistence
	Logger *slog.Logger           // Optional: structured logger
}

// ContactService provides business logic for contact operations. All
// operations are scoped to the owning user; a contact owned by someone
// else is indistinguishable from a missing one.
type ContactService struct {
	repo   core.ContactRepository
	logger *slog.Logger
}

// NewContactService constructs a ContactService.
func NewContactService(opts ContactServiceOptions) (*ContactService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ContactRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ContactService{
		repo:   opts.Repo,
		logger: logger.With("component", "contact_service"),
	}, nil
}

// MustNewContactService constructs a ContactService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewContactService(opts ContactServiceOptions) *ContactService {
	svc, err := NewContactService(opts)
	if err != nil {
		panic(err)
	}
	return svc
}

// Create creates a new contact for the given user.
func (s *ContactService) Create(
	ctx context.Context,
	userID int64,
	req model.CreateContactRequest,
) (*model.Contact, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindUnprocessable, Message: err.Error()}
	}

	contact, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// Get retrieves one of the user's contacts by id.
func (s *ContactService) Get(ctx context.Context, userID, contactID int64) (*model.Contact, error) {
	contact, err := s.repo.GetByID(ctx, userID, contactID)
	if errors.Is(err, data.ErrContactNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// List retrieves the user's contacts with filters and pagination.
func (s *ContactService) List(
	ctx context.Context,
	userID int64,
	opts model.ContactListOptions,
) ([]*model.Contact, error) {
	contacts, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Replace overwrites every mutable field of a contact.
func (s *ContactService) Replace(
	ctx context.Context,
	userID, contactID int64,
	req model.CreateContactRequest,
) (*model.Contact, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindUnprocessable, Message: err.Error()}
	}

	contact, err := s.repo.Replace(ctx, userID, contactID, req)
	if errors.Is(err, data.ErrContactNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("replace contact: %w", err)
	}
	return contact, nil
}

// Update applies a partial update to a contact.
func (s *ContactService) Update(
	ctx context.Context,
	userID, contactID int64,
	req model.UpdateContactRequest,
) (*model.Contact, error) {
	contact, err := s.repo.Update(ctx, userID, contactID, req)
	if errors.Is(err, data.ErrContactNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return contact, nil
}

// Delete removes one of the user's contacts.
func (s *ContactService) Delete(ctx context.Context, userID, contactID int64) error {
	deleted, err := s.repo.Delete(ctx, userID, contactID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if !deleted {
		return ErrContactNotFound
	}
	return nil
}

// UpcomingBirthdays lists contacts with a birthday in the next week.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID int64) ([]*model.Contact, error) {
	contacts, err := s.repo.UpcomingBirthdays(ctx, userID, birthdayLookaheadDays)
	if err != nil {
		return nil, fmt.Errorf("upcoming birthdays: %w", err)
	}
	return contacts, nil
}

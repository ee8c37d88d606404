package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users   core.UserRepository // Required: user persistence
	Avatars core.AvatarStore    // Required: avatar image hosting
	Logger  *slog.Logger        // Optional: structured logger
}

// UserService provides profile operations for authenticated users.
type UserService struct {
	users   core.UserRepository
	avatars core.AvatarStore
	logger  *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Avatars == nil {
		return nil, errors.New("AvatarStore is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:   opts.Users,
		avatars: opts.Avatars,
		logger:  logger.With("component", "user_service"),
	}, nil
}

// MustNewUserService constructs a UserService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewUserService(opts UserServiceOptions) *UserService {
	svc, err := NewUserService(opts)
	if err != nil {
		panic(err)
	}
	return svc
}

// UpdateAvatar uploads a new avatar image and persists its public URL.
// The upload is synchronous; store faults surface as service faults.
func (s *UserService) UpdateAvatar(
	ctx context.Context,
	user *model.User,
	file io.Reader,
) (*model.User, error) {
	publicID := "RestApp/" + user.Username

	url, err := s.avatars.Upload(ctx, file, publicID)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	updated, err := s.users.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, fmt.Errorf("persist avatar url: %w", err)
	}

	s.logger.DebugContext(ctx, "avatar updated", "user_id", updated.ID)
	return updated, nil
}

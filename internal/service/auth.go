package service

import (
	"context"
	"crypto/md5" //nolint:gosec // gravatar addressing, not credential hashing
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vmelnyk/contacts-api/internal/auth"
	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

// Confirmation flow messages. The texts are part of the API contract.
const (
	MsgEmailConfirmed        = "Email confirmed"
	MsgEmailAlreadyConfirmed = "Your email has already been confirmed."
	MsgCheckYourEmail        = "Check your email for confirmation."
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users   core.UserRepository // Required: user persistence
	Tokens  *auth.TokenService  // Required: session token issuance
	Email   core.EmailSender    // Optional: confirmation email delivery
	BaseURL string              // Base URL embedded in confirmation links
	Logger  *slog.Logger        // Optional: structured logger
}

// AuthService orchestrates registration, login, and email confirmation.
type AuthService struct {
	users   core.UserRepository
	tokens  *auth.TokenService
	email   core.EmailSender
	baseURL string
	logger  *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("TokenService is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		users:   opts.Users,
		tokens:  opts.Tokens,
		email:   opts.Email,
		baseURL: opts.BaseURL,
		logger:  logger.With("component", "auth_service"),
	}, nil
}

// MustNewAuthService constructs an AuthService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		panic(err)
	}
	return svc
}

// Register creates an unconfirmed user and schedules a confirmation
// email. The pre-checks give stable conflict messages; the insert itself
// is still guarded by the database's unique indexes, so a racing
// registration loses with the same conflict instead of a storage fault.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindUnprocessable, Message: err.Error()}
	}

	if err := s.checkAvailability(ctx, req); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	avatar := gravatarURL(req.Email)
	user, err := s.users.Create(ctx, req, hashed, &avatar)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, data.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		default:
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	s.sendConfirmation(ctx, user)

	return user, nil
}

func (s *AuthService) checkAvailability(ctx context.Context, req model.CreateUserRequest) error {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, data.ErrUserNotFound) {
		return fmt.Errorf("find user by email: %w", err)
	}

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, data.ErrUserNotFound) {
		return fmt.Errorf("find user by username: %w", err)
	}

	return nil
}

// sendConfirmation schedules the confirmation email fire-and-forget.
// Delivery failures are logged only; they never fail the registration.
func (s *AuthService) sendConfirmation(ctx context.Context, user *model.User) {
	if s.email == nil {
		return
	}

	// Detached from the request's cancellation: the response returns
	// before delivery finishes.
	sendCtx := context.WithoutCancel(ctx)
	email, username := user.Email, user.Username
	go func() {
		if err := s.email.Send(sendCtx, email, username, s.baseURL); err != nil {
			s.logger.Error("confirmation email failed", "email", email, "error", err)
		}
	}()
}

// TokenResult is the login response payload.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies credentials and issues a session token. Unknown
// usernames and wrong passwords return the same error so responses do
// not reveal which accounts exist; unconfirmed accounts are rejected
// separately even with correct credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, data.ErrUserNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, ErrBadCredentials
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}

	token, err := s.tokens.IssueSessionToken(user.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &TokenResult{AccessToken: token, TokenType: "bearer"}, nil
}

// ConfirmEmail validates a confirmation token and flips the confirmed
// flag. Confirming twice is idempotent success; the flag is write-once.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	email, err := s.tokens.VerifyConfirmationToken(token)
	if err != nil {
		return "", ErrConfirmationToken
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, data.ErrUserNotFound) {
		return "", ErrVerification
	}
	if err != nil {
		return "", fmt.Errorf("find user by email: %w", err)
	}

	if user.Confirmed {
		return MsgEmailAlreadyConfirmed, nil
	}

	if err := s.users.ConfirmEmail(ctx, email); err != nil {
		return "", fmt.Errorf("confirm email: %w", err)
	}

	return MsgEmailConfirmed, nil
}

// RequestEmail re-sends the confirmation email. The response is 200 with
// the same message whether or not the address is registered, so the
// endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestEmail(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, data.ErrUserNotFound) {
		return MsgCheckYourEmail, nil
	}
	if err != nil {
		return "", fmt.Errorf("find user by email: %w", err)
	}

	if user.Confirmed {
		return MsgEmailAlreadyConfirmed, nil
	}

	s.sendConfirmation(ctx, user)
	return MsgCheckYourEmail, nil
}

// gravatarURL returns the default avatar for a new account.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized)) //nolint:gosec // gravatar addressing, not credential hashing
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}

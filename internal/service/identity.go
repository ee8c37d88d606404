package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmelnyk/contacts-api/internal/auth"
	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

// resolveState tracks a single request through identity resolution. The
// branching between cache and persistence is an explicit state machine
// rather than nested conditionals so the freshness invariant stays
// auditable.
type resolveState int

const (
	stateTokenPending resolveState = iota
	stateTokenInvalid
	stateCacheHit
	stateCacheMiss
	stateResolved
	stateUnresolved
)

func (s resolveState) String() string {
	switch s {
	case stateTokenPending:
		return "token_pending"
	case stateTokenInvalid:
		return "token_invalid"
	case stateCacheHit:
		return "cache_hit"
	case stateCacheMiss:
		return "cache_miss"
	case stateResolved:
		return "resolved"
	case stateUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// IdentityServiceOptions groups dependencies for IdentityService.
type IdentityServiceOptions struct {
	Tokens *auth.TokenService  // Required: session token verification
	Users  core.UserRepository // Required: source of truth for identity
	Cache  *IdentityCache      // Required: snapshot cache
	Logger *slog.Logger        // Optional: structured logger
}

// IdentityService answers "who is making this request" for every
// protected endpoint. It verifies the bearer token, consults the
// snapshot cache, and falls back to persistence, repopulating the cache
// best-effort on the way out.
type IdentityService struct {
	tokens *auth.TokenService
	users  core.UserRepository
	cache  *IdentityCache
	logger *slog.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(opts IdentityServiceOptions) (*IdentityService, error) {
	if opts.Tokens == nil {
		return nil, errors.New("TokenService is required")
	}
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("IdentityCache is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IdentityService{
		tokens: opts.Tokens,
		users:  opts.Users,
		cache:  opts.Cache,
		logger: logger.With("component", "identity_service"),
	}, nil
}

// MustNewIdentityService constructs an IdentityService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewIdentityService(opts IdentityServiceOptions) *IdentityService {
	svc, err := NewIdentityService(opts)
	if err != nil {
		panic(err)
	}
	return svc
}

// Resolve verifies the bearer token and returns the authenticated user.
//
// Cache hits are never trusted outright: the snapshot only supplies the
// primary key for the cheapest possible authoritative lookup, so a stale
// entry can never hide a field-level change such as a flipped
// confirmation flag. A snapshot whose id no longer exists falls through
// silently to the username lookup; that tolerance for stale entries is
// deliberate. Persistence faults propagate untouched, unlike cache
// faults, because persistence is the source of truth and its
// unavailability must be visible.
func (s *IdentityService) Resolve(ctx context.Context, bearerToken string) (*model.User, error) {
	user, state, err := s.resolve(ctx, bearerToken)
	s.logger.DebugContext(ctx, "identity resolution", "state", state.String())
	return user, err
}

func (s *IdentityService) resolve(
	ctx context.Context,
	bearerToken string,
) (*model.User, resolveState, error) {
	state := stateTokenPending

	subject, err := s.tokens.VerifySessionToken(bearerToken)
	if err != nil {
		return nil, stateTokenInvalid, ErrCouldNotValidate
	}

	var user *model.User
	if snapshot := s.cache.Get(ctx, subject); snapshot != nil {
		state = stateCacheHit
		user, err = s.lookupByID(ctx, snapshot.ID)
		if err != nil {
			return nil, state, err
		}
	} else {
		state = stateCacheMiss
	}

	if user == nil {
		user, err = s.lookupByUsername(ctx, subject)
		if err != nil {
			return nil, state, err
		}
		if user != nil {
			s.cache.Put(ctx, model.SnapshotOf(user))
		}
	}

	if user == nil {
		return nil, stateUnresolved, ErrCouldNotValidate
	}

	return user, stateResolved, nil
}

// lookupByID fetches the authoritative row behind a cache hit. A missing
// row is not an error here; it means the snapshot is stale and the
// caller falls back to the username path.
func (s *IdentityService) lookupByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, data.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *IdentityService) lookupByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, data.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return user, nil
}

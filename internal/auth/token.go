package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vmelnyk/contacts-api/config"
)

// Sentinel errors for token verification. The two kinds are distinct on
// purpose: a bad session token is an authorization failure, while a bad
// confirmation link is a client error on an unauthenticated endpoint.
var (
	ErrInvalidToken             = errors.New("could not validate credentials")
	ErrInvalidConfirmationToken = errors.New("invalid email verification token")
)

const confirmationTokenTTL = 7 * 24 * time.Hour

// Scope values bound into every issued token. Verification requires the
// matching scope, so a confirmation link can never act as a session and
// a session token can never confirm an email address.
const (
	scopeSession      = "access_token"
	scopeConfirmation = "email_token"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// TokenService issues and verifies signed, expiring tokens. Session and
// confirmation tokens share one symmetric signing mechanism but differ in
// claim shape, TTL, and failure classification.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	sessionTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService from JWT configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		method:     signingMethod(cfg.Algorithm),
		sessionTTL: cfg.AccessTokenTTL(),
		now:        time.Now,
	}
}

func signingMethod(alg config.JWTAlgorithm) jwt.SigningMethod {
	switch alg {
	case config.JWTAlgorithmHS384:
		return jwt.SigningMethodHS384
	case config.JWTAlgorithmHS512:
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// IssueSessionToken mints a session token for the given subject. A zero
// ttl uses the configured default.
func (s *TokenService) IssueSessionToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.sessionTTL
	}
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
		},
		Scope: scopeSession,
	}
	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// VerifySessionToken validates signature and expiry and returns the
// subject claim. All failures collapse to ErrInvalidToken; callers map it
// to an unauthorized response with a WWW-Authenticate challenge.
func (s *TokenService) VerifySessionToken(token string) (string, error) {
	subject, err := s.parseSubject(token, scopeSession)
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// IssueConfirmationToken mints a long-lived token proving mailbox
// ownership for the given email address.
func (s *TokenService) IssueConfirmationToken(email string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(confirmationTokenTTL)),
		},
		Scope: scopeConfirmation,
	}
	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign confirmation token: %w", err)
	}
	return token, nil
}

// VerifyConfirmationToken validates a confirmation token and returns the
// email it was issued for. Failures surface as
// ErrInvalidConfirmationToken, not as an authorization error.
func (s *TokenService) VerifyConfirmationToken(token string) (string, error) {
	email, err := s.parseSubject(token, scopeConfirmation)
	if err != nil || email == "" {
		return "", ErrInvalidConfirmationToken
	}
	return email, nil
}

func (s *TokenService) parseSubject(token, scope string) (string, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("token is not valid")
	}
	if claims.Scope != scope {
		return "", fmt.Errorf("unexpected token scope %q", claims.Scope)
	}
	return claims.Subject, nil
}

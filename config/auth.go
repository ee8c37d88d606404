package config

import (
	"fmt"
	"strings"
	"time"
)

// JWTAlgorithm is the symmetric signing algorithm used for tokens.
type JWTAlgorithm string

const (
	// JWTAlgorithmHS256 signs tokens with HMAC-SHA256.
	JWTAlgorithmHS256 JWTAlgorithm = "HS256"
	// JWTAlgorithmHS384 signs tokens with HMAC-SHA384.
	JWTAlgorithmHS384 JWTAlgorithm = "HS384"
	// JWTAlgorithmHS512 signs tokens with HMAC-SHA512.
	JWTAlgorithmHS512 JWTAlgorithm = "HS512"
)

// UnmarshalText implements encoding.TextUnmarshaler for JWTAlgorithm.
func (a *JWTAlgorithm) UnmarshalText(text []byte) error {
	v := strings.ToUpper(string(text))
	switch v {
	case "HS256", "HS384", "HS512":
		*a = JWTAlgorithm(v)
		return nil
	default:
		return fmt.Errorf("invalid JWTAlgorithm: %q (valid options: HS256, HS384, HS512)", v)
	}
}

// JWTConfig groups token-signing configuration.
type JWTConfig struct {
	// Secret is the symmetric signing secret. Required.
	Secret string `env:"SECRET,required"`

	// Algorithm selects the HMAC variant used to sign tokens.
	Algorithm JWTAlgorithm `env:"ALGORITHM" envDefault:"HS256"`

	// ExpirationSeconds is the session access-token lifetime.
	ExpirationSeconds int `env:"EXPIRATION_SECONDS" envDefault:"3600"`
}

// AccessTokenTTL returns the configured session token lifetime as a duration.
func (c *JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.ExpirationSeconds) * time.Second
}

const defaultExpirationSeconds = 3600

// Sanitize applies guardrails to JWT configuration values.
func (c *JWTConfig) Sanitize() {
	if c.ExpirationSeconds <= 0 {
		c.ExpirationSeconds = defaultExpirationSeconds
	}
}

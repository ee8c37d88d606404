package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: JWT signing configuration
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - mail.go: Outbound mail configuration
//   - avatar.go: Avatar object-store configuration
type AppConfig struct {
	// Authentication configuration
	JWT JWTConfig `envPrefix:"JWT_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Outbound mail configuration
	Mail MailConfig `envPrefix:"MAIL_"`

	// Avatar object-store configuration
	Avatar AvatarConfig `envPrefix:"AVATAR_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.JWT.Sanitize()
	c.Cache.Sanitize()
	c.HTTP.Sanitize()
}

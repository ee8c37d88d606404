package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"contacts"`
	Password string `env:"PASSWORD" envDefault:"contacts"`
	Name     string `env:"NAME"     envDefault:"contacts"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis connection configuration for the identity cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// CacheConfig contains identity-cache behavior configuration.
type CacheConfig struct {
	// IdentityTTL is how long a cached identity snapshot stays valid.
	IdentityTTL time.Duration `env:"CACHE_IDENTITY_TTL" envDefault:"900s"`

	// OpTimeout bounds individual cache calls so a degraded Redis
	// cannot stall the request path.
	OpTimeout time.Duration `env:"CACHE_OP_TIMEOUT" envDefault:"250ms"`
}

const (
	defaultIdentityTTL    = 900 * time.Second
	defaultCacheOpTimeout = 250 * time.Millisecond
)

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.IdentityTTL <= 0 {
		c.IdentityTTL = defaultIdentityTTL
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = defaultCacheOpTimeout
	}
}

package config

// MailConfig contains SMTP configuration for confirmation emails.
type MailConfig struct {
	Host     string `env:"SERVER"    envDefault:"localhost"`
	Port     int    `env:"PORT"      envDefault:"465"`
	Username string `env:"USERNAME"  envDefault:""`
	Password string `env:"PASSWORD"  envDefault:""`
	From     string `env:"FROM"      envDefault:"noreply@example.com"`
	FromName string `env:"FROM_NAME" envDefault:"Rest API Service"`
}

package config

// AvatarConfig contains object-store configuration for avatar uploads.
// Any S3-compatible store works (AWS S3, MinIO).
type AvatarConfig struct {
	Region    string `env:"S3_REGION"     envDefault:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"   envDefault:""`
	Bucket    string `env:"S3_BUCKET"     envDefault:"avatars"`
	AccessKey string `env:"S3_ACCESS_KEY" envDefault:""`
	SecretKey string `env:"S3_SECRET_KEY" envDefault:""`

	// PublicBaseURL is the URL prefix returned to clients for uploaded
	// objects. Defaults to Endpoint + "/" + Bucket when empty.
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL" envDefault:""`
}

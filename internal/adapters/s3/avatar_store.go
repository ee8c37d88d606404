// Package s3 stores avatar images in an S3-compatible object store.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vmelnyk/contacts-api/config"
	"github.com/vmelnyk/contacts-api/internal/core"
)

// putObjectAPI is the slice of the S3 client the store uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ core.AvatarStore = (*AvatarStore)(nil)

// AvatarStore uploads avatar images and returns their public URL.
// Objects are keyed by the stable per-user public id, so a new upload
// replaces the previous image at the same URL.
type AvatarStore struct {
	client        putObjectAPI
	bucket        string
	publicBaseURL string
}

// NewAvatarStore builds an AvatarStore from configuration. Any
// S3-compatible endpoint works; a non-empty Endpoint switches the client
// to path-style addressing for MinIO and friends.
func NewAvatarStore(ctx context.Context, cfg config.AvatarConfig) (*AvatarStore, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &AvatarStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg config.AvatarConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Upload stores the image under the given public id and returns the URL
// clients can fetch it from.
func (s *AvatarStore) Upload(ctx context.Context, body io.Reader, publicID string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("put avatar object: %w", err)
	}

	return s.publicBaseURL + "/" + publicID, nil
}

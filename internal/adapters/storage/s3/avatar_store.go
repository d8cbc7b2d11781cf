package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/taskhub/auth-service/internal/infra/config"
)

// AvatarStore uploads registration media to an S3-compatible bucket and
// returns the public URL plus the object key the account keeps as its
// opaque media reference.
type AvatarStore struct {
	uploader *manager.Uploader
	bucket   string
	region   string
	endpoint string
}

func NewAvatarStore(ctx context.Context, cfg *config.Config) (*AvatarStore, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.S3Endpoint != "" {
			// MinIO and friends
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &AvatarStore{
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: cfg.S3Endpoint,
	}, nil
}

func (s *AvatarStore) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	key := storageKey()

	_, err := s.uploader.Upload(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", err
	}

	return s.objectURL(key), key, nil
}

// Keys are year/month/uuid, so no URL escaping is needed.
func (s *AvatarStore) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%02d/%v", d.Year(), d.Month(), uuid.New())
}

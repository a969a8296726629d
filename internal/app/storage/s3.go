package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"groupchat/internal/pkg/logx"
	"groupchat/internal/pkg/randx"
)

// s3Store implements ContentStore against any S3-compatible endpoint.
type s3Store struct {
	cfg      ServiceConfig
	client   *s3.Client
	uploader *manager.Uploader
}

// newS3Store configures the client for path-style access with static
// credentials, which covers both AWS and self-hosted S3 endpoints.
func newS3Store(cfg ServiceConfig) (*s3Store, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize content store configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// Save streams the content to the bucket under a kind-prefixed random key.
func (s *s3Store) Save(ctx context.Context, content io.Reader, originalName, mimeType string, size int64) (*SavedObject, error) {
	kind := ClassifyKind(mimeType)
	key := randx.ObjectKey(KindDir(kind), originalName)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.S3BucketName,
		Key:         &key,
		Body:        content,
		ContentType: &mimeType,
	})
	if err != nil {
		logx.Error(err, "Content store upload failed", "key", key)
		return nil, errors.New("failed to store file")
	}

	return &SavedObject{
		URL:  fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), key),
		Key:  key,
		Name: originalName,
		Size: size,
		Kind: kind,
	}, nil
}

// Delete removes the object behind url. URLs outside the configured public
// base are ignored rather than treated as errors.
func (s *s3Store) Delete(ctx context.Context, url string) error {
	key := s.keyFromURL(url)
	if key == "" {
		logx.Warn("Content store delete skipped for foreign URL", "url", url)
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    &key,
	})
	if err != nil {
		logx.Error(err, "Content store delete failed", "key", key)
		return errors.New("failed to delete stored file")
	}

	return nil
}

func (s *s3Store) keyFromURL(url string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}

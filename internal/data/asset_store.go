package data

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kratos/kratos/v2/log"
)

var (
	_ domain.AssetStore = (*S3AssetStore)(nil)
	_ domain.AssetStore = (*disabledAssetStore)(nil)
)

// S3AssetStore writes objects to an S3-compatible bucket (AWS S3, R2, MinIO).
type S3AssetStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	log           *log.Helper
}

// NewAssetStore builds the S3 store, or a disabled store when no bucket is
// configured.
func NewAssetStore(c *conf.Assets, logger log.Logger) (domain.AssetStore, error) {
	helper := log.NewHelper(logger)
	if c == nil || c.Bucket == "" {
		helper.Info("asset bucket not configured, QR images will not be stored")
		return &disabledAssetStore{}, nil
	}

	opts := []func(*config.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load asset store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3AssetStore(client, c.Bucket, c.PublicBaseURL, logger), nil
}

// NewS3AssetStore wraps an existing client. Without publicBaseURL, refs use
// the bucket's virtual-hosted AWS URL.
func NewS3AssetStore(client *s3.Client, bucket, publicBaseURL string, logger log.Logger) *S3AssetStore {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3AssetStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log.NewHelper(logger),
	}
}

// Put uploads data under key and returns its public URL.
func (s *S3AssetStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.log.WithContext(ctx).Warnf("Failed to upload asset %s: %v", key, err)
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Delete removes key from the bucket.
func (s *S3AssetStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

type disabledAssetStore struct{}

func (disabledAssetStore) Put(context.Context, string, string, []byte) (string, error) {
	return "", domain.ErrAssetStoreDisabled
}

func (disabledAssetStore) Delete(context.Context, string) error {
	return domain.ErrAssetStoreDisabled
}

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/logging"
	"github.com/portico/backend/internal/config"
)

// S3Backend stores objects in one bucket per category on an S3-compatible
// endpoint. Public URLs are built from the endpoint, bucket and escaped key.
type S3Backend struct {
	client   *s3.Client
	endpoint string
	buckets  map[Category]string
}

func NewS3Backend(cfg *config.Config) (*S3Backend, error) {
	client, err := buildClient(cfg.StorageS3Endpoint, cfg.StorageS3Region,
		cfg.StorageS3AccessKeyID, cfg.StorageS3SecretAccessKey, cfg.StorageS3UsePathStyle)
	if err != nil {
		return nil, err
	}
	return &S3Backend{
		client:   client,
		endpoint: strings.TrimRight(cfg.StorageS3Endpoint, "/"),
		buckets: map[Category]string{
			CategoryImages:    cfg.ImagesBucket,
			CategoryVideos:    cfg.VideosBucket,
			CategoryDocuments: cfg.DocumentsBucket,
		},
	}, nil
}

func buildClient(endpoint, region, key, secret string, pathStyle bool) (*s3.Client, error) {
	resolver := awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
		func(service, rgn string, options ...interface{}) (aws.Endpoint, error) {
			if endpoint != "" {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}))
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		resolver,
		awsconfig.WithLogger(logging.NewStandardLogger(nil)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
	return client, nil
}

func (b *S3Backend) Name() string { return "s3" }

func (b *S3Backend) Store(ctx context.Context, key string, body io.Reader, contentType string, category Category) (StoredObject, error) {
	bucket := b.buckets[category]
	// The uploader reads the body sequentially, so a tee hashes the bytes in
	// the same pass that uploads them.
	hasher := sha256.New()
	uploader := manager.NewUploader(b.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        io.TeeReader(body, hasher),
		ContentType: &contentType,
		ACL:         s3types.ObjectCannedACLPublicRead,
	}, func(u *manager.Uploader) { u.PartSize = 10 * 1024 * 1024 })
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to upload %s to bucket %s: %w", key, bucket, err)
	}
	return StoredObject{Key: key, PublicURL: b.PublicURL(key, category), Hash: hex.EncodeToString(hasher.Sum(nil))}, nil
}

func (b *S3Backend) Delete(ctx context.Context, key string, category Category) error {
	bucket := b.buckets[category]
	// DeleteObject succeeds for missing keys, which matches the idempotent
	// delete contract.
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}

func (b *S3Backend) Exists(ctx context.Context, key string, category Category) (bool, error) {
	bucket := b.buckets[category]
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head %s in bucket %s: %w", key, bucket, err)
	}
	return true, nil
}

func (b *S3Backend) PublicURL(key string, category Category) string {
	return fmt.Sprintf("%s/%s/%s", b.endpoint, b.buckets[category], url.PathEscape(key))
}

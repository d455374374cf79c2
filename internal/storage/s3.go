package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"thumbnail-service/internal/errs"
	"thumbnail-service/internal/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the object-storage backend configuration.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	// URLExpiry bounds the lifetime of presigned download URLs.
	URLExpiry time.Duration
}

// S3 stores objects in an S3-compatible bucket through a single shared
// client. The client is constructed once at startup and lives for the
// process; minio clients are safe for concurrent use.
type S3 struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

// NewS3 builds the client and verifies the bucket is reachable. Bad
// credentials or a missing bucket fail here rather than on first use.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	logging.Debug("S3 storage: endpoint %s, bucket %s", cfg.Endpoint, cfg.Bucket)
	return &S3{client: client, bucket: cfg.Bucket, urlExpiry: expiry}, nil
}

// objectKey strips the leading separator; S3 keys are not rooted.
func objectKey(key string) string {
	return strings.TrimPrefix(key, "/")
}

func (s *S3) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string, meta Metadata) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(key), body, size, minio.PutObjectOptions{
		ContentType: contentType,
		// A re-upload overwrites the object in place; intermediaries must
		// not keep serving the stale bytes.
		CacheControl: "no-cache",
		UserMetadata: metadataTags(meta),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, mapNotFound(err))
	}
	return data, nil
}

func (s *S3) CopyObject(ctx context.Context, originalKey, newKey string, meta Metadata) error {
	src := minio.CopySrcOptions{
		Bucket: s.bucket,
		Object: objectKey(originalKey),
	}
	dst := minio.CopyDestOptions{
		Bucket:          s.bucket,
		Object:          objectKey(newKey),
		UserMetadata:    metadataTags(meta),
		ReplaceMetadata: true,
	}
	// Server-side copy: the payload never transits the application tier.
	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("copy object %s -> %s: %w", originalKey, newKey, mapNotFound(err))
	}
	return nil
}

func (s *S3) DeleteObject(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(key), minio.RemoveObjectOptions{})
	if err != nil && !errs.IsNotFound(mapNotFound(err)) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3) GetObjectHandle(ctx context.Context, key, filename string) (*Object, error) {
	// Stat first so absence surfaces as not-found instead of a signed URL
	// that 404s later at the bucket.
	info, err := s.client.StatObject(ctx, s.bucket, objectKey(key), minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("stat object %s: %w", key, mapNotFound(err))
	}

	params := make(url.Values)
	params.Set("response-content-type", "image/jpeg")
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", filename))

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey(key), s.urlExpiry, params)
	if err != nil {
		return nil, fmt.Errorf("presign object %s: %w", key, err)
	}
	return &Object{
		Key:         key,
		URL:         signed.String(),
		Size:        info.Size,
		ContentType: "image/jpeg",
	}, nil
}

// metadataTags converts owner metadata into S3 user metadata.
func metadataTags(meta Metadata) map[string]string {
	tags := make(map[string]string, 2)
	if meta.MemberID != "" {
		tags["member"] = meta.MemberID
	}
	if meta.ItemID != "" {
		tags["item"] = meta.ItemID
	}
	return tags
}

// mapNotFound translates the backend's missing-key responses into the
// domain not-found sentinel, leaving transport errors untouched.
func mapNotFound(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == 404 {
		return errs.ErrNotFound
	}
	return err
}

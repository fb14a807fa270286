package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/pkg/config"
)

// objectAPI is the subset of *minio.Client the store relies on
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// UploadOptions tunes how an object is stored
type UploadOptions struct {
	// Attachment sets video/mp4 and an attachment Content-Disposition. It only
	// applies to keys ending in .mp4.
	Attachment bool
}

// ExpirationMetadataKey is stored on every object. It is informational; no
// lifecycle rule enforces it.
const ExpirationMetadataKey = "expiration-date"

// MediaStore stores source videos and clips in an S3-compatible bucket
type MediaStore struct {
	client    objectAPI
	bucket    string
	publicURL *url.URL
	now       func() time.Time
}

// NewMinIOStore creates a MinIO-backed media store and prepares its bucket
func NewMinIOStore(cfg *config.Config) (*MediaStore, error) {
	// Initialize MinIO client
	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store, err := newMediaStore(minioClient, cfg.Storage.BucketName, cfg.GetStoragePublicURL())
	if err != nil {
		return nil, err
	}

	// Initialize bucket with public read policy
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.ensureBucketWithPolicy(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return store, nil
}

func newMediaStore(client objectAPI, bucket, publicURL string) (*MediaStore, error) {
	base, err := url.Parse(strings.TrimRight(publicURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid storage public URL %q", publicURL)
	}
	return &MediaStore{
		client:    client,
		bucket:    bucket,
		publicURL: base,
		now:       time.Now,
	}, nil
}

// ensureBucketWithPolicy ensures bucket exists and has public read policy
func (m *MediaStore) ensureBucketWithPolicy(ctx context.Context) error {
	// Check if bucket exists
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	// Create bucket if it doesn't exist
	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	// The transcription engine and ffmpeg both fetch source videos by URL, and
	// clients download clips directly.
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// Upload stores the reader under key and returns the public URL. If an
// object already exists at key its URL is returned without writing again.
func (m *MediaStore) Upload(ctx context.Context, reader io.Reader, size int64, key string, opts UploadOptions) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty object key", entities.ErrStorage)
	}

	exists, err := m.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		return m.URL(key), nil
	}

	putOpts := minio.PutObjectOptions{
		UserMetadata: map[string]string{
			ExpirationMetadataKey: m.now().AddDate(1, 0, 0).UTC().Format(time.RFC3339),
		},
	}
	if opts.Attachment && strings.EqualFold(path.Ext(key), ".mp4") {
		putOpts.ContentType = "video/mp4"
		putOpts.ContentDisposition = fmt.Sprintf("attachment; filename=%q", path.Base(key))
	}

	if _, err := m.client.PutObject(ctx, m.bucket, key, reader, size, putOpts); err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", entities.ErrStorage, key, err)
	}
	return m.URL(key), nil
}

// Exists reports whether an object is stored at key
func (m *MediaStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: stat %s: %v", entities.ErrStorage, key, err)
}

// Delete removes the object referenced by rawURL. It reports false, without
// error, when nothing was stored there.
func (m *MediaStore) Delete(ctx context.Context, rawURL string) (bool, error) {
	key, err := m.KeyFromURL(rawURL)
	if err != nil {
		return false, err
	}

	exists, err := m.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: delete %s: %v", entities.ErrStorage, key, err)
	}
	return true, nil
}

// URL returns the public URL of key
func (m *MediaStore) URL(key string) string {
	u := *m.publicURL
	u.Path = path.Join("/", m.publicURL.Path, m.bucket, key)
	u.RawPath = ""
	return u.String()
}

// KeyFromURL maps a URL produced by URL back to its object key
func (m *MediaStore) KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid object URL %q: %v", entities.ErrStorage, rawURL, err)
	}
	if !strings.EqualFold(u.Host, m.publicURL.Host) {
		return "", fmt.Errorf("%w: URL %q is outside storage host %s", entities.ErrStorage, rawURL, m.publicURL.Host)
	}

	prefix := path.Join("/", m.publicURL.Path, m.bucket) + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("%w: URL %q is outside bucket %s", entities.ErrStorage, rawURL, m.bucket)
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", fmt.Errorf("%w: URL %q has no object key", entities.ErrStorage, rawURL)
	}
	return key, nil
}

// ListFiles lists all keys under prefix
func (m *MediaStore) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var files []string

	// List objects in bucket with prefix
	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("%w: list objects: %v", entities.ErrStorage, object.Err)
		}
		files = append(files, object.Key)
	}

	return files, nil
}

// Ping checks that the bucket is reachable
func (m *MediaStore) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket: %v", entities.ErrStorage, err)
	}
	if !exists {
		return fmt.Errorf("%w: bucket %s does not exist", entities.ErrStorage, m.bucket)
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.StatusCode == http.StatusNotFound
}

package doctors

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// ImageStore persists doctor profile images and returns a public URL.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// S3API is the subset of the S3 client used by S3ImageStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads doctor images to S3 under a server-generated key.
type S3ImageStore struct {
	bucket   string
	baseURL  string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

// NewS3ImageStore creates an image store. baseURL is the public prefix images
// are served from (CDN or bucket website endpoint).
func NewS3ImageStore(s3Client S3API, bucket, baseURL string, logger *logging.Logger) *S3ImageStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &S3ImageStore{
		bucket:   bucket,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		s3Client: s3Client,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *S3ImageStore) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if s.bucket == "" || s.s3Client == nil {
		return "", fmt.Errorf("doctors: image store not configured")
	}

	// Server-generated name: timestamp prefix keeps keys unique and sortable.
	key := fmt.Sprintf("uploads/%d-%s", s.now().UnixMilli(), sanitizeFilename(filename))

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("doctors: s3 put %s: %w", key, err)
	}

	s.logger.Info("doctor image uploaded", "key", key, "bucket", s.bucket)

	if s.baseURL != "" {
		return s.baseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		return "image"
	}
	return name
}

// MemoryImageStore keeps uploads in memory; used in dev mode and tests.
type MemoryImageStore struct {
	mu     sync.Mutex
	images map[string][]byte
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{images: make(map[string][]byte)}
}

func (s *MemoryImageStore) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("doctors: read image: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("/uploads/%d-%s", len(s.images), sanitizeFilename(filename))
	s.images[key] = data
	return key, nil
}

// Get returns a stored image; tests use this.
func (s *MemoryImageStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.images[key]
	return data, ok
}

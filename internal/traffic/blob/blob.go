package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when no blob exists for the key.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey is returned for empty keys or keys that would escape the store.
	ErrInvalidKey = errors.New("invalid blob key")
)

// Config selects and configures a backend.
type Config struct {
	Driver string

	LocalDir string

	Bucket string
	Prefix string

	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

// Store is implemented by every backend.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

var (
	_ Store = (*Local)(nil)
	_ Store = (*S3)(nil)
	_ Store = (*GCS)(nil)
)

// Open builds the backend named by cfg.Driver ("local", "s3" or "gcs") and
// a function releasing its resources.
func Open(ctx context.Context, cfg Config) (Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Driver {
	case "", "local":
		s, err := NewLocal(cfg.LocalDir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "s3":
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "gcs":
		s, err := NewGCS(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, noop, err
		}
		return s, func(context.Context) error { return s.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func objectName(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

func keyFromObject(prefix, name string) (string, bool) {
	if prefix == "" {
		return name, !strings.Contains(name, "/")
	}
	key, ok := strings.CutPrefix(name, strings.TrimSuffix(prefix, "/")+"/")
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

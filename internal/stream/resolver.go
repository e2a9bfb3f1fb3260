package stream

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/psort/blobstore"
	"github.com/hupe1980/psort/blobstore/minio"
	"github.com/hupe1980/psort/blobstore/s3"
)

// Resolver maps locations to blob stores. Object store clients are created
// on first use and shared afterwards.
type Resolver struct {
	// Stdin and Stdout back SchemeStdio. They default to os.Stdin and
	// os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer

	// S3Options configure S3 stores.
	S3Options []s3.Option
	// MinIO configures the MinIO client.
	MinIO minio.Config

	mu       sync.Mutex
	s3Stores map[string]blobstore.BlobStore
	minio    map[string]blobstore.BlobStore
}

// Register makes store serve every location with the given scheme and
// bucket. It replaces the lazily created client for that bucket.
func (r *Resolver) Register(scheme Scheme, bucket string, store blobstore.BlobStore) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch scheme {
	case SchemeS3:
		if r.s3Stores == nil {
			r.s3Stores = make(map[string]blobstore.BlobStore)
		}
		r.s3Stores[bucket] = store
	case SchemeMinIO:
		if r.minio == nil {
			r.minio = make(map[string]blobstore.BlobStore)
		}
		r.minio[bucket] = store
	}
}

func (r *Resolver) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Resolver) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

// Store returns the blob store for loc and the blob name within it.
func (r *Resolver) Store(ctx context.Context, loc Location) (blobstore.BlobStore, string, error) {
	switch loc.Scheme {
	case SchemeFile:
		dir, name := filepath.Split(loc.Key)
		if dir == "" {
			dir = "."
		}
		return blobstore.NewLocalStore(dir), name, nil

	case SchemeS3:
		r.mu.Lock()
		defer r.mu.Unlock()

		if st, ok := r.s3Stores[loc.Bucket]; ok {
			return st, loc.Key, nil
		}
		st, err := s3.New(ctx, loc.Bucket, r.S3Options...)
		if err != nil {
			return nil, "", fmt.Errorf("s3 store for bucket %q: %w", loc.Bucket, err)
		}
		if r.s3Stores == nil {
			r.s3Stores = make(map[string]blobstore.BlobStore)
		}
		r.s3Stores[loc.Bucket] = st
		return st, loc.Key, nil

	case SchemeMinIO:
		r.mu.Lock()
		defer r.mu.Unlock()

		if st, ok := r.minio[loc.Bucket]; ok {
			return st, loc.Key, nil
		}
		client, err := minio.NewClient(r.MinIO)
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}
		st := minio.NewStore(client, loc.Bucket, "")
		if r.minio == nil {
			r.minio = make(map[string]blobstore.BlobStore)
		}
		r.minio[loc.Bucket] = st
		return st, loc.Key, nil

	default:
		return nil, "", fmt.Errorf("%w: %s has no blob store", ErrInvalidLocation, loc)
	}
}

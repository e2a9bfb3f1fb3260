package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	s := NewStore(nil, "bucket", "runs/")

	assert.Equal(t, "runs/in.bin", s.key("in.bin"))
	assert.Equal(t, "runs", s.key(""))
	assert.Equal(t, "in.bin", s.relName("runs/in.bin"))
	assert.Equal(t, "a/b.txt", s.relName("runs/a/b.txt"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "in.bin", bare.key("in.bin"))
	assert.Equal(t, "in.bin", bare.relName("in.bin"))
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", client.EndpointURL().Host)
	assert.Equal(t, "http", client.EndpointURL().Scheme)

	client, err = NewClient(Config{Endpoint: "s3.example.com", Secure: true})
	require.NoError(t, err)
	assert.Equal(t, "https", client.EndpointURL().Scheme)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	client, err := NewClient(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-psort"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("5\n3\n3\n1\n")
	require.NoError(t, store.Put(ctx, "in.txt", data))

	blob, err := store.Open(ctx, "in.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 2, 4)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "3\n3\n", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "in.txt")

	wb, err := store.Create(ctx, "out.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("1\n3\n3\n5\n"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	out, err := store.Open(ctx, "out.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.Size())
	require.NoError(t, out.Close())

	require.NoError(t, store.Delete(ctx, "in.txt"))
	require.NoError(t, store.Delete(ctx, "out.txt"))

	_, err = store.Open(ctx, "in.txt")
	require.Error(t, err)
}

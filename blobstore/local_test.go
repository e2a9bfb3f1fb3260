package blobstore

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/psort/internal/fs"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	// 1. Create a blob
	name := "in/numbers.bin"
	var data []byte
	for _, v := range []int32{5, 3, -3, 1} {
		data = binary.LittleEndian.AppendUint32(data, uint32(v))
	}

	w, err := store.Create(ctx, name)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// Not visible before Close.
	_, err = os.Stat(filepath.Join(tmpDir, "in", "numbers.bin"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	fi, err := os.Stat(filepath.Join(tmpDir, "in", "numbers.bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 4)
	n, err = blob.ReadAt(ctx, buf, 8)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.Equal(t, int32(-3), int32(binary.LittleEndian.Uint32(buf)))

	m, ok := blob.(Mappable)
	require.True(t, ok)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)

	// 3. Put and List
	require.NoError(t, store.Put(ctx, "in/other.txt", []byte("1\n2\n")))
	require.NoError(t, store.Put(ctx, "out.txt", nil))

	names, err := store.List(ctx, "in/")
	require.NoError(t, err)
	assert.Equal(t, []string{"in/numbers.bin", "in/other.txt"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"in/numbers.bin", "in/other.txt", "out.txt"}, names)

	// 4. Delete
	require.NoError(t, store.Delete(ctx, "in/other.txt"))
	require.NoError(t, store.Delete(ctx, "in/other.txt"))

	names, err = store.List(ctx, "in/")
	require.NoError(t, err)
	assert.Equal(t, []string{"in/numbers.bin"}, names)

	_, err = store.Open(ctx, "in/other.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "boundary.bin", []byte("0123456789")))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	read := func(off, length int64) string {
		r, err := blob.ReadRange(ctx, off, length)
		require.NoError(t, err)
		defer r.Close()
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		return string(content)
	}

	assert.Equal(t, "0123456789", read(0, 10))
	assert.Equal(t, "89", read(8, 5))
	assert.Equal(t, "", read(20, 5))

	_, err = blob.ReadRange(ctx, -1, 5)
	assert.Error(t, err)
}

func TestLocalStore_Abort(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	w, err := store.Create(ctx, "partial.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("1\n2\n"))
	require.NoError(t, err)

	require.NoError(t, Abort(w))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = w.Write([]byte("3\n"))
	assert.Error(t, err)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "empty", nil))

	blob, err := store.Open(ctx, "empty")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(0), blob.Size())
	_, err = blob.ReadAt(ctx, make([]byte, 1), 0)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx, "x")
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = store.Create(ctx, "x")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_Faults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"Write", fs.Fault{FailAfterBytes: 2}},
		{"Sync", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"Close", fs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"Rename", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			ffs := fs.NewFaultyFS(nil)
			ffs.AddRule(".tmp-", tt.fault)

			store := NewLocalStore(tmpDir)
			store.fs = ffs

			err := store.Put(ctx, "values.txt", []byte("1\n2\n3\n"))
			assert.ErrorIs(t, err, fs.ErrInjected)

			// Neither the target nor the temporary file survive.
			entries, err := os.ReadDir(tmpDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
